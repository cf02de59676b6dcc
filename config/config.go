/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package config loads planner settings from an optional .env file, an
// optional YAML file and the process environment, in that order of
// increasing precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Nick-Sullivan/house-planner/registry"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config is the complete planner configuration.
type Config struct {
	Backend  string            `yaml:"backend"`
	LogLevel string            `yaml:"log_level"`
	AWS      AWSConfig         `yaml:"aws"`
	Tables   TablesConfig      `yaml:"tables"`
	Cities   map[string]string `yaml:"cities"` // city code -> tiles CSV path
	Seed     SeedConfig        `yaml:"seed"`
	HTTP     HTTPConfig        `yaml:"http"`
}

// AWSConfig holds DynamoDB connection settings.
type AWSConfig struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// TablesConfig holds the physical table names of a deployment.
type TablesConfig struct {
	Requirements     string `yaml:"requirements"`
	SpatialDistances string `yaml:"spatial_distances"`
	Houses           string `yaml:"houses"`
}

// SeedConfig lists CSV files loaded into the store at startup.
type SeedConfig struct {
	SpatialDistances string `yaml:"spatial_distances"`
	Houses           string `yaml:"houses"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Backend:  BackendMemory,
		LogLevel: "info",
		AWS: AWSConfig{
			Region: "ap-southeast-2",
		},
		Tables: TablesConfig{
			Requirements:     "dev-Requirements",
			SpatialDistances: "dev-SpatialDistances",
			Houses:           "dev-Houses",
		},
		Cities: map[string]string{},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

var envOverrides = []struct {
	key   string
	field func(*Config) *string
}{
	{"PLANNER_BACKEND", func(c *Config) *string { return &c.Backend }},
	{"PLANNER_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
	{"PLANNER_HTTP_ADDR", func(c *Config) *string { return &c.HTTP.Addr }},
	{"REQUIREMENTS_TABLE_NAME", func(c *Config) *string { return &c.Tables.Requirements }},
	{"SPATIAL_DISTANCES_TABLE_NAME", func(c *Config) *string { return &c.Tables.SpatialDistances }},
	{"HOUSES_TABLE_NAME", func(c *Config) *string { return &c.Tables.Houses }},
	{"AWS_REGION", func(c *Config) *string { return &c.AWS.Region }},
	{"AWS_ACCESS_KEY", func(c *Config) *string { return &c.AWS.AccessKey }},
	{"AWS_SECRET_KEY", func(c *Config) *string { return &c.AWS.SecretKey }},
	{"DYNAMODB_ENDPOINT", func(c *Config) *string { return &c.AWS.Endpoint }},
}

func (c *Config) applyEnv() {
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.field(c) = v
		}
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
}

// Validate checks the configuration for values the planner cannot start with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendDynamoDB:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Backend == BackendDynamoDB && c.AWS.Region == "" {
		return fmt.Errorf("aws.region is required for the %s backend", BackendDynamoDB)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	_, err := c.TableNames()
	return err
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// TableNames resolves the configured table names to their kinds. Each name
// must carry the suffix of the kind it is configured for.
func (c *Config) TableNames() (*registry.TableNames, error) {
	configured := []struct {
		kind registry.TableKind
		name string
	}{
		{registry.Requirements, c.Tables.Requirements},
		{registry.SpatialDistances, c.Tables.SpatialDistances},
		{registry.Houses, c.Tables.Houses},
	}
	names := make([]string, 0, len(configured))
	for _, t := range configured {
		kind, err := registry.KindForTableName(t.name)
		if err != nil {
			return nil, err
		}
		if kind != t.kind {
			return nil, fmt.Errorf("table %q is configured as %s but resolves to %s", t.name, t.kind, kind)
		}
		names = append(names, t.name)
	}
	return registry.NewTableNames(names...)
}
