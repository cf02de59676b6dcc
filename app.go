/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package houseplanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Nick-Sullivan/house-planner/config"
	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/datastore/ddb"
	"github.com/Nick-Sullivan/house-planner/datastore/memory"
	"github.com/Nick-Sullivan/house-planner/planner"
	"github.com/Nick-Sullivan/house-planner/seed"
	"github.com/Nick-Sullivan/house-planner/tiles"
)

// App wires a configured store, tile enumerator and planner together.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    datastore.DataStore
	Tiles    tiles.Enumerator
	Planner  *planner.Service
	Registry *prometheus.Registry
}

// AppOption customises NewApp.
type AppOption func(*appOptions)

type appOptions struct {
	store datastore.DataStore
	tiles tiles.Enumerator
}

// WithStore uses store instead of the configured backend.
func WithStore(store datastore.DataStore) AppOption {
	return func(o *appOptions) { o.store = store }
}

// WithTiles uses enumerator instead of the configured city CSV files.
func WithTiles(enumerator tiles.Enumerator) AppOption {
	return func(o *appOptions) { o.tiles = enumerator }
}

// NewApp builds an App from cfg and loads any configured seed data.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...AppOption) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		if store, err = openStore(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}
	enumerator := o.tiles
	if enumerator == nil {
		enumerator = tiles.NewCSVFiles(cfg.Cities)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Tiles:    enumerator,
		Registry: reg,
		Planner: planner.New(store, enumerator,
			planner.WithLogger(logger),
			planner.WithMetrics(planner.NewMetrics(reg)),
		),
	}
	if err := app.Seed(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datastore.DataStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(memory.WithLogger(logger)), nil
	case config.BackendDynamoDB:
		names, err := cfg.TableNames()
		if err != nil {
			return nil, err
		}
		client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientOptions{
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		logger.Info("using dynamodb store", "region", cfg.AWS.Region, "endpoint", cfg.AWS.Endpoint)
		return ddb.NewStore(client, names, ddb.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Seed loads the CSV files named in the configuration into the store.
func (a *App) Seed(ctx context.Context) error {
	loader := seed.NewLoader(a.Store, a.Logger)
	if path := a.Config.Seed.SpatialDistances; path != "" {
		if _, err := loader.SpatialDistancesFile(ctx, path); err != nil {
			return fmt.Errorf("seed spatial distances: %w", err)
		}
	}
	if path := a.Config.Seed.Houses; path != "" {
		if _, err := loader.HousesFile(ctx, path); err != nil {
			return fmt.Errorf("seed houses: %w", err)
		}
	}
	return nil
}
