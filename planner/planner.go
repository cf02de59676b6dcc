/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package planner scores commute requirements across the tiles of a city and
// combines scored requirements into composite maps.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/tiles"
)

// Service drives scoring and aggregation through the storage port.
type Service struct {
	store   datastore.DataStore
	tiles   tiles.Enumerator
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records operations in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service.
func New(store datastore.DataStore, enumerator tiles.Enumerator, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tiles:  enumerator,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreRequirement scores every tile of the request's city and stores the
// result, replacing any earlier scoring of the same requirement.
func (s *Service) ScoreRequirement(ctx context.Context, req RequirementRequest) (item *entities.RequirementItem, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("score", req.CityCode, start, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := entities.LoadRequirement(ctx, s.store, req.RequirementID)
	if err != nil {
		return nil, fmt.Errorf("load requirement %s: %w", req.RequirementID, err)
	}
	version := int32(1)
	if existing != nil {
		version = existing.Version + 1
	}

	anchors := distinctAnchors(req.Locations)
	index := NewDistanceIndex()
	for _, anchor := range anchors {
		distances, err := entities.ListSpatialDistancesBySource(ctx, s.store, anchor)
		if err != nil {
			return nil, fmt.Errorf("list distances from %s: %w", anchor, err)
		}
		index.Add(distances...)
	}

	destinations, err := s.tiles.ListTiles(ctx, req.CityCode)
	if err != nil {
		return nil, fmt.Errorf("list tiles for %s: %w", req.CityCode, err)
	}

	scored := &entities.RequirementItem{
		RequirementID: req.RequirementID,
		CityCode:      req.CityCode,
		MapTiles:      ComputeTileScores(index, anchors, destinations, req.TravelMode, req.ToleratedDuration),
		Version:       version,
		UpdatedAt:     strfmt.DateTime(s.now().UTC()),
	}

	write, err := scored.Save()
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteSingle(ctx, write); err != nil {
		return nil, fmt.Errorf("save requirement %s: %w", req.RequirementID, err)
	}

	if s.metrics != nil {
		s.metrics.TilesScored.Add(float64(len(scored.MapTiles)))
	}
	s.logger.Info("requirement scored",
		"requirement_id", req.RequirementID.String(),
		"city", req.CityCode,
		"travel_mode", req.TravelMode.String(),
		"anchors", len(anchors),
		"tiles", len(scored.MapTiles),
		"version", version)
	return scored, nil
}

// Aggregate combines the stored scores of ids into a composite map of city.
// Every enumerated tile is present; tiles no requirement scored get 0 and no
// contributors. A missing requirement fails the whole aggregation.
func (s *Service) Aggregate(ctx context.Context, city string, ids []uuid.UUID) (result *CompositeMap, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("aggregate", city, start, err) }()

	if strings.TrimSpace(city) == "" {
		return nil, errors.NewValidationError("city_code", "is required")
	}

	requirements := make([]*entities.RequirementItem, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		req, err := entities.LoadRequirement(ctx, s.store, id)
		if err != nil {
			return nil, fmt.Errorf("load requirement %s: %w", id, err)
		}
		if req == nil {
			s.logger.Warn("aggregate: requirement not found", "requirement_id", id.String(), "city", city)
			return nil, errors.NewRequirementNotFoundError(id.String())
		}
		requirements = append(requirements, req)
	}

	enumerated, err := s.tiles.ListTiles(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("list tiles for %s: %w", city, err)
	}

	byTile := make(map[string]*CompositeTile, len(enumerated))
	for _, h3 := range enumerated {
		byTile[h3] = &CompositeTile{H3Index: h3, Contributors: []Contribution{}}
	}
	for _, req := range requirements {
		for _, tile := range req.MapTiles {
			composite, ok := byTile[tile.H3Index]
			if !ok {
				composite = &CompositeTile{H3Index: tile.H3Index, Contributors: []Contribution{}}
				byTile[tile.H3Index] = composite
			}
			if len(composite.Contributors) == 0 || tile.Score < composite.Score {
				composite.Score = tile.Score
			}
			composite.Contributors = append(composite.Contributors, Contribution{
				RequirementID: req.RequirementID,
				Score:         tile.Score,
			})
		}
	}

	result = &CompositeMap{CityCode: city, Tiles: make([]CompositeTile, 0, len(byTile))}
	for _, tile := range byTile {
		result.Tiles = append(result.Tiles, *tile)
	}
	slices.SortFunc(result.Tiles, func(a, b CompositeTile) int {
		return strings.Compare(a.H3Index, b.H3Index)
	})

	s.logger.Debug("aggregated",
		"city", city,
		"requirements", len(requirements),
		"tiles", len(result.Tiles))
	return result, nil
}
