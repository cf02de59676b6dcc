/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package planner

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nick-Sullivan/house-planner/datastore/memory"
	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/tiles"
)

func TestScore(t *testing.T) {
	tests := []struct {
		duration, tolerated, want int32
	}{
		{0, 1200, 100},
		{600, 1200, 50},
		{1199, 1200, 1},
		{1200, 1200, 0},
		{5000, 1200, 0},
		{1, 3, 67},
		{2, 3, 34},
		{600, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.duration, tt.tolerated), "Score(%d, %d)", tt.duration, tt.tolerated)
	}
}

func TestShortestTakesMinimumOverAnchors(t *testing.T) {
	index := NewDistanceIndex(
		entities.SpatialDistanceItem{SourceIndex: "A", DestinationIndex: "D", DurationDrive: 900, DurationWalk: 100},
		entities.SpatialDistanceItem{SourceIndex: "B", DestinationIndex: "D", DurationDrive: 300, DurationWalk: 5000},
	)

	d, ok := index.Shortest([]string{"A", "B", "C"}, "D", entities.Driving)
	require.True(t, ok)
	assert.Equal(t, int32(300), d)

	d, ok = index.Shortest([]string{"A", "B"}, "D", entities.Walking)
	require.True(t, ok)
	assert.Equal(t, int32(100), d)

	d, ok = index.Shortest([]string{"A", "D"}, "D", entities.Driving)
	require.True(t, ok)
	assert.Equal(t, int32(0), d)

	_, ok = index.Shortest([]string{"C"}, "D", entities.Driving)
	assert.False(t, ok)
}

type fixture struct {
	store   *memory.Store
	service *Service
	metrics *Metrics
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	distances := []entities.SpatialDistanceItem{
		{CityCode: "ADL", SourceIndex: "A", DestinationIndex: "B", DurationDrive: 600, DurationWalk: 2400, DurationCycle: 1200, DurationTransit: 1800},
		{CityCode: "ADL", SourceIndex: "B", DestinationIndex: "A", DurationDrive: 600, DurationWalk: 2400, DurationCycle: 1200, DurationTransit: 1800},
		{CityCode: "ADL", SourceIndex: "D", DestinationIndex: "B", DurationDrive: 240, DurationWalk: 900, DurationCycle: 500, DurationTransit: 700},
	}
	for _, d := range distances {
		write, err := d.Save()
		require.NoError(t, err)
		require.NoError(t, store.WriteSingle(ctx, write))
	}

	logs := &bytes.Buffer{}
	metrics := NewMetrics(prometheus.NewRegistry())
	service := New(store, tiles.Static{"ADL": {"A", "B", "C"}},
		WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetrics(metrics),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }),
	)
	return &fixture{store: store, service: service, metrics: metrics, logs: logs}
}

func driveRequest(id uuid.UUID, anchors ...string) RequirementRequest {
	req := RequirementRequest{
		RequirementID:     id,
		CityCode:          "ADL",
		TravelMode:        entities.Driving,
		ToleratedDuration: 1200,
	}
	for i, a := range anchors {
		req.Locations = append(req.Locations, Location{ID: int32(i), Address: "anchor " + a, H3Index: a})
	}
	return req
}

func scores(tiles []entities.MapTile) map[string]int32 {
	out := make(map[string]int32, len(tiles))
	for _, tile := range tiles {
		out[tile.H3Index] = tile.Score
	}
	return out
}

func TestScoreRequirement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.New()

	item, err := f.service.ScoreRequirement(ctx, driveRequest(id, "A"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int32{"A": 100, "B": 50, "C": 0}, scores(item.MapTiles))
	assert.Equal(t, int32(1), item.Version)

	stored, err := entities.LoadRequirement(ctx, f.store, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, item.MapTiles, stored.MapTiles)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), time.Time(stored.UpdatedAt))

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Operations.WithLabelValues("score", "ADL")))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.TilesScored))
	assert.Contains(t, f.logs.String(), "requirement scored")
}

func TestScoreRequirementReplacesPreviousScores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.New()

	_, err := f.service.ScoreRequirement(ctx, driveRequest(id, "A"))
	require.NoError(t, err)

	// second anchor D reaches B faster; duplicated anchors are looked up once
	req := driveRequest(id, "A", "D", "D")
	item, err := f.service.ScoreRequirement(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]int32{"A": 100, "B": 80, "C": 0}, scores(item.MapTiles))
	assert.Equal(t, int32(2), item.Version)

	stored, err := entities.LoadRequirement(ctx, f.store, id)
	require.NoError(t, err)
	assert.Equal(t, int32(2), stored.Version)
	assert.Len(t, stored.MapTiles, 3)
}

func TestScoreRequirementValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := map[string]func(r *RequirementRequest){
		"missing id":          func(r *RequirementRequest) { r.RequirementID = uuid.Nil },
		"missing city":        func(r *RequirementRequest) { r.CityCode = " " },
		"no locations":        func(r *RequirementRequest) { r.Locations = nil },
		"blank anchor":        func(r *RequirementRequest) { r.Locations[0].H3Index = "" },
		"zero tolerance":      func(r *RequirementRequest) { r.ToleratedDuration = 0 },
		"unknown travel mode": func(r *RequirementRequest) { r.TravelMode = entities.TravelMode(9) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := driveRequest(uuid.New(), "A")
			mutate(&req)
			_, err := f.service.ScoreRequirement(ctx, req)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(f.metrics.Failures.WithLabelValues("score")))
}

func TestAggregateTakesMinimum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, second := uuid.New(), uuid.New()

	_, err := f.service.ScoreRequirement(ctx, driveRequest(first, "A"))
	require.NoError(t, err)
	_, err = f.service.ScoreRequirement(ctx, driveRequest(second, "D"))
	require.NoError(t, err)

	composite, err := f.service.Aggregate(ctx, "ADL", []uuid.UUID{first, second, first})
	require.NoError(t, err)
	require.Len(t, composite.Tiles, 3)

	byTile := make(map[string]CompositeTile)
	for _, tile := range composite.Tiles {
		byTile[tile.H3Index] = tile
	}

	b := byTile["B"]
	assert.Equal(t, int32(50), b.Score)
	assert.ElementsMatch(t, []Contribution{
		{RequirementID: first, Score: 50},
		{RequirementID: second, Score: 80},
	}, b.Contributors)

	// A is an anchor of the first requirement but unreachable from D
	assert.Equal(t, int32(0), byTile["A"].Score)
	assert.Len(t, byTile["A"].Contributors, 2)

	assert.Equal(t, []string{"A", "B", "C"}, []string{composite.Tiles[0].H3Index, composite.Tiles[1].H3Index, composite.Tiles[2].H3Index})
}

func TestAggregateWithoutRequirements(t *testing.T) {
	f := newFixture(t)

	composite, err := f.service.Aggregate(context.Background(), "ADL", nil)
	require.NoError(t, err)
	require.Len(t, composite.Tiles, 3)
	for _, tile := range composite.Tiles {
		assert.Equal(t, int32(0), tile.Score)
		assert.Empty(t, tile.Contributors)
	}
}

func TestAggregateIncludesUnscoredAndForeignTiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.New()

	req := entities.RequirementItem{
		RequirementID: id,
		CityCode:      "ADL",
		MapTiles:      []entities.MapTile{{H3Index: "B", Score: 70}, {H3Index: "Z", Score: 40}},
		Version:       1,
	}
	write, err := req.Save()
	require.NoError(t, err)
	require.NoError(t, f.store.WriteSingle(ctx, write))

	composite, err := f.service.Aggregate(ctx, "ADL", []uuid.UUID{id})
	require.NoError(t, err)

	got := make(map[string]int32)
	for _, tile := range composite.Tiles {
		got[tile.H3Index] = tile.Score
	}
	assert.Equal(t, map[string]int32{"A": 0, "B": 70, "C": 0, "Z": 40}, got)
}

func TestAggregateMissingRequirementIsFatal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	known := uuid.New()

	_, err := f.service.ScoreRequirement(ctx, driveRequest(known, "A"))
	require.NoError(t, err)

	composite, err := f.service.Aggregate(ctx, "ADL", []uuid.UUID{known, uuid.New()})
	assert.ErrorIs(t, err, errors.ErrRequirementNotFound)
	assert.True(t, errors.IsNotFound(err))
	assert.Nil(t, composite)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Failures.WithLabelValues("aggregate")))
}
