/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nick-Sullivan/house-planner/registry"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, o := range envOverrides {
		t.Setenv(o.key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, "dev-Requirements", cfg.Tables.Requirements)

	names, err := cfg.TableNames()
	require.NoError(t, err)
	name, ok := names.Name(registry.SpatialDistances)
	assert.True(t, ok)
	assert.Equal(t, "dev-SpatialDistances", name)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "planner.yaml", `
backend: dynamodb
log_level: debug
aws:
  region: us-east-1
  endpoint: http://localhost:8000
tables:
  requirements: prod-Requirements
  spatial_distances: prod-SpatialDistances
  houses: prod-Houses
cities:
  ADL: data/adl.csv
seed:
  houses: data/houses.csv
http:
  addr: ":9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:8000", cfg.AWS.Endpoint)
	assert.Equal(t, "prod-Houses", cfg.Tables.Houses)
	assert.Equal(t, map[string]string{"ADL": "data/adl.csv"}, cfg.Cities)
	assert.Equal(t, "data/houses.csv", cfg.Seed.Houses)
	assert.Empty(t, cfg.Seed.SpatialDistances)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "planner.yaml", "backend: memory\nhttp:\n  addr: \":9000\"\n")

	t.Setenv("PLANNER_BACKEND", "DynamoDB")
	t.Setenv("PLANNER_HTTP_ADDR", ":7000")
	t.Setenv("REQUIREMENTS_TABLE_NAME", "staging-Requirements")
	t.Setenv("AWS_ACCESS_KEY", "AKIA")
	t.Setenv("AWS_SECRET_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "staging-Requirements", cfg.Tables.Requirements)
	assert.Equal(t, "AKIA", cfg.AWS.AccessKey)
	assert.Equal(t, "secret", cfg.AWS.SecretKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]struct {
		env  map[string]string
		file string
	}{
		"unknown backend":      {env: map[string]string{"PLANNER_BACKEND": "redis"}},
		"unrecognised table":   {env: map[string]string{"HOUSES_TABLE_NAME": "dev-Listings"}},
		"table for other kind": {env: map[string]string{"HOUSES_TABLE_NAME": "dev-Requirements"}},
		"bad log level":        {env: map[string]string{"PLANNER_LOG_LEVEL": "loud"}},
		"malformed yaml":       {file: "backend: [memory"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "planner.yaml", tt.file)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
