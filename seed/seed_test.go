/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nick-Sullivan/house-planner/datastore/memory"
	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
)

func TestSpatialDistances(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	loader := NewLoader(store, nil)

	var b strings.Builder
	b.WriteString(strings.Join(SpatialDistanceColumns, ",") + "\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "A,D%02d,ADL,%d,%d,%d,%d\n", i, i*2, i, i*3, i*4)
	}

	n, err := loader.SpatialDistances(ctx, strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.Equal(t, 60, store.Len(registry.SpatialDistances))

	item, err := entities.LoadSpatialDistance(ctx, store, "A", "D07")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, entities.SpatialDistanceItem{
		CityCode: "ADL", SourceIndex: "A", DestinationIndex: "D07",
		DurationCycle: 14, DurationDrive: 7, DurationTransit: 21, DurationWalk: 28,
	}, *item)
}

func TestSpatialDistancesColumnOrderIsFree(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	input := "city_code,duration_walk,duration_transit,duration_drive,duration_cycle,destination_index,source_index\n" +
		"ADL,40,30,10,20,B,A\n"
	n, err := NewLoader(store, nil).SpatialDistances(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := entities.LoadSpatialDistance(ctx, store, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, int32(10), item.DurationDrive)
	assert.Equal(t, int32(40), item.DurationWalk)
}

func TestSpatialDistancesErrors(t *testing.T) {
	ctx := context.Background()
	header := strings.Join(SpatialDistanceColumns, ",") + "\n"

	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"missing column", "source_index,destination_index\nA,B\n", errors.ErrInvalidInput},
		{"not a number", header + "A,B,ADL,x,1,1,1\n", errors.ErrTypeMismatch},
		{"negative", header + "A,B,ADL,-1,1,1,1\n", errors.ErrInvalidInput},
		{"blank key", header + ",B,ADL,1,1,1,1\n", errors.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(memory.New(), nil).SpatialDistances(ctx, strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestHouses(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	loader := NewLoader(store, nil)
	loader.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }

	input := strings.Join(HouseColumns, ",") + "\n" +
		`8abe8d1b2a7ffff,"12 Main St, Unley",ADL,https://example.com/12,-34.95,138.6,650000,700000,2,3,1,House` + "\n" +
		`8abe8d1b2a7ffff,3/4 Side Rd,ADL,,-34.951,138.61,400000,450000,1,2,0,Unit` + "\n"

	n, err := loader.Houses(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := entities.ListHousesByH3Index(ctx, store, "8abe8d1b2a7ffff", 0, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	byAddress := map[string]entities.HouseItem{}
	for _, h := range page.Items {
		byAddress[h.Address] = h
	}
	main := byAddress["12 Main St, Unley"]
	assert.Equal(t, int32(3), main.NumBedrooms)
	assert.Equal(t, 138.6, main.Lng)
	assert.Equal(t, "Unit", byAddress["3/4 Side Rd"].PropertyType)
	assert.Empty(t, byAddress["3/4 Side Rd"].URL)
}
