/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package houseplanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nick-Sullivan/house-planner/config"
	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/planner"
	"github.com/Nick-Sullivan/house-planner/tiles"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewAppSeedsAndScores(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Cities["ADL"] = writeFile(t, dir, "adl.csv", "h3_index\n8abe8d1b2a7ffff\n8abe8d1b2a6ffff\n")
	cfg.Seed.SpatialDistances = writeFile(t, dir, "distances.csv",
		"source_index,destination_index,city_code,duration_cycle,duration_drive,duration_transit,duration_walk\n"+
			"8abe8d1b2a7ffff,8abe8d1b2a6ffff,ADL,300,150,450,900\n")
	cfg.Seed.Houses = writeFile(t, dir, "houses.csv",
		"h3_index,address,city_code,url,lat,lng,price_lower,price_upper,num_bathrooms,num_bedrooms,num_carspaces,property_type\n"+
			"8abe8d1b2a6ffff,1 First St,ADL,,-34.9,138.6,500000,550000,1,2,1,House\n")

	app, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)

	houses, err := entities.ListHousesByCity(ctx, app.Store, "ADL", 0, "")
	require.NoError(t, err)
	assert.Len(t, houses.Items, 1)

	item, err := app.Planner.ScoreRequirement(ctx, planner.RequirementRequest{
		RequirementID:     uuid.New(),
		CityCode:          "ADL",
		TravelMode:        entities.Bicycling,
		ToleratedDuration: 600,
		Locations:         []planner.Location{{ID: 1, Address: "work", H3Index: "8abe8d1b2a7ffff"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.MapTile{
		{H3Index: "8abe8d1b2a7ffff", Score: 100},
		{H3Index: "8abe8d1b2a6ffff", Score: 50},
	}, item.MapTiles)

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "planner_operations_total")
}

func TestNewAppWithOverrides(t *testing.T) {
	cfg := config.Default()
	app, err := NewApp(context.Background(), cfg, nil, WithTiles(tiles.Static{"MEL": {"a"}}))
	require.NoError(t, err)

	got, err := app.Tiles.ListTiles(context.Background(), "MEL")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestNewAppSeedFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Seed.Houses = filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewApp(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "seed houses")
}

func TestNewAppUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "redis"

	_, err := NewApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
