/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package entities

import (
	"context"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// SpatialDistanceItem holds the travel durations, in whole seconds, from one
// tile to another. The reverse direction is a separate item.
type SpatialDistanceItem struct {
	CityCode         string
	SourceIndex      string
	DestinationIndex string
	DurationWalk     int32
	DurationCycle    int32
	DurationDrive    int32
	DurationTransit  int32
}

type spatialDistanceRow struct {
	SourceIndex      string `dynamodbav:"SourceIndex"`
	DestinationIndex string `dynamodbav:"DestinationIndex"`
	CityCode         string `dynamodbav:"CityCode"`
	DurationWalk     int32  `dynamodbav:"DurationWalk"`
	DurationCycle    int32  `dynamodbav:"DurationCycle"`
	DurationDrive    int32  `dynamodbav:"DurationDrive"`
	DurationTransit  int32  `dynamodbav:"DurationTransit"`
}

// Duration returns the duration for mode, and false for an unknown mode.
func (s SpatialDistanceItem) Duration(mode TravelMode) (int32, bool) {
	switch mode {
	case Driving:
		return s.DurationDrive, true
	case Walking:
		return s.DurationWalk, true
	case Bicycling:
		return s.DurationCycle, true
	case PublicTransport:
		return s.DurationTransit, true
	default:
		return 0, false
	}
}

// SpatialDistanceFromRecord decodes a stored spatial distance.
func SpatialDistanceFromRecord(r storagemodels.Record) (SpatialDistanceItem, error) {
	var s SpatialDistanceItem
	var err error
	if s.CityCode, err = attribute.ParseString(r, "CityCode"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.SourceIndex, err = attribute.ParseString(r, "SourceIndex"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.DestinationIndex, err = attribute.ParseString(r, "DestinationIndex"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.DurationWalk, err = attribute.ParseInt32(r, "DurationWalk"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.DurationCycle, err = attribute.ParseInt32(r, "DurationCycle"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.DurationDrive, err = attribute.ParseInt32(r, "DurationDrive"); err != nil {
		return SpatialDistanceItem{}, err
	}
	if s.DurationTransit, err = attribute.ParseInt32(r, "DurationTransit"); err != nil {
		return SpatialDistanceItem{}, err
	}
	return s, nil
}

// Record encodes s for storage.
func (s SpatialDistanceItem) Record() (storagemodels.Record, error) {
	return marshalRow(spatialDistanceRow{
		SourceIndex:      s.SourceIndex,
		DestinationIndex: s.DestinationIndex,
		CityCode:         s.CityCode,
		DurationWalk:     s.DurationWalk,
		DurationCycle:    s.DurationCycle,
		DurationDrive:    s.DurationDrive,
		DurationTransit:  s.DurationTransit,
	})
}

// Save builds an unconditional put of s.
func (s SpatialDistanceItem) Save() (storagemodels.WriteItem, error) {
	record, err := s.Record()
	if err != nil {
		return storagemodels.WriteItem{}, err
	}
	return storagemodels.WriteItem{Put: &storagemodels.Put{
		Table:     registry.SpatialDistances,
		Item:      record,
		Condition: storagemodels.NoCondition(),
	}}, nil
}

// GetSpatialDistance addresses the item for source → destination.
func GetSpatialDistance(source, destination string) storagemodels.Get {
	return storagemodels.Get{
		Table: registry.SpatialDistances,
		Key: storagemodels.Record{
			"SourceIndex":      attribute.String(source),
			"DestinationIndex": attribute.String(destination),
		},
	}
}

// LoadSpatialDistance reads source → destination, returning nil when absent.
func LoadSpatialDistance(ctx context.Context, store datastore.DataStore, source, destination string) (*SpatialDistanceItem, error) {
	record, err := store.ReadSingle(ctx, GetSpatialDistance(source, destination))
	if err != nil || record == nil {
		return nil, err
	}
	item, err := SpatialDistanceFromRecord(record)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListSpatialDistancesBySource returns every item whose source is source.
func ListSpatialDistancesBySource(ctx context.Context, store datastore.DataStore, source string) ([]SpatialDistanceItem, error) {
	return queryAll(ctx, store, &storagemodels.QueryParams{
		Table: registry.SpatialDistances,
		Key:   storagemodels.Equality{Attribute: "SourceIndex", Value: attribute.String(source)},
	}, SpatialDistanceFromRecord)
}

// ListSpatialDistancesByCity returns every item of a city.
func ListSpatialDistancesByCity(ctx context.Context, store datastore.DataStore, city string) ([]SpatialDistanceItem, error) {
	return queryAll(ctx, store, &storagemodels.QueryParams{
		Table:     registry.SpatialDistances,
		IndexName: registry.CityCodeIndex,
		Key:       storagemodels.Equality{Attribute: "CityCode", Value: attribute.String(city)},
	}, SpatialDistanceFromRecord)
}
