/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package entities

import (
	"context"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// MapTile is the score, 0 to 100, a requirement gives one tile.
type MapTile struct {
	H3Index string `json:"h3_index"`
	Score   int32  `json:"score"`
}

// RequirementItem is a scored commute requirement. MapTiles is replaced as a
// whole each time the requirement is scored.
type RequirementItem struct {
	RequirementID uuid.UUID
	CityCode      string
	MapTiles      []MapTile
	Version       int32
	UpdatedAt     strfmt.DateTime
}

type requirementRow struct {
	RequirementID string `dynamodbav:"RequirementId"`
	CityCode      string `dynamodbav:"CityCode"`
	MapTiles      string `dynamodbav:"MapTiles"`
	Version       int32  `dynamodbav:"version"`
	UpdatedAt     string `dynamodbav:"UpdatedAt,omitempty"`
}

// RequirementFromRecord decodes a stored requirement.
func RequirementFromRecord(r storagemodels.Record) (RequirementItem, error) {
	var req RequirementItem
	var err error
	if req.RequirementID, err = attribute.ParseUUID(r, "RequirementId"); err != nil {
		return RequirementItem{}, err
	}
	if req.CityCode, err = attribute.ParseString(r, "CityCode"); err != nil {
		return RequirementItem{}, err
	}
	raw, err := attribute.ParseString(r, "MapTiles")
	if err != nil {
		return RequirementItem{}, err
	}
	if req.MapTiles, err = decodeMapTiles(raw); err != nil {
		return RequirementItem{}, err
	}
	if req.Version, err = storagemodels.Version(r); err != nil {
		return RequirementItem{}, err
	}
	if _, ok := r["UpdatedAt"]; ok {
		ts, err := attribute.ParseTimestamp(r, "UpdatedAt")
		if err != nil {
			return RequirementItem{}, err
		}
		req.UpdatedAt = strfmt.DateTime(ts)
	}
	return req, nil
}

func decodeMapTiles(raw string) ([]MapTile, error) {
	tiles := []MapTile{}
	if err := json.Unmarshal([]byte(raw), &tiles); err != nil {
		return nil, errors.NewTypeMismatchError("MapTiles", "JSON list of map tiles")
	}
	return tiles, nil
}

// Record encodes r for storage.
func (r RequirementItem) Record() (storagemodels.Record, error) {
	tiles := r.MapTiles
	if tiles == nil {
		tiles = []MapTile{}
	}
	raw, err := json.Marshal(tiles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal map tiles: %w", err)
	}

	row := requirementRow{
		RequirementID: r.RequirementID.String(),
		CityCode:      r.CityCode,
		MapTiles:      string(raw),
		Version:       r.Version,
	}
	if updated := time.Time(r.UpdatedAt); !updated.IsZero() {
		row.UpdatedAt = updated.UTC().Format(attribute.TimestampLayout)
	}
	return marshalRow(row)
}

func (r RequirementItem) put(cond storagemodels.Condition) (storagemodels.WriteItem, error) {
	record, err := r.Record()
	if err != nil {
		return storagemodels.WriteItem{}, err
	}
	return storagemodels.WriteItem{Put: &storagemodels.Put{
		Table:     registry.Requirements,
		Item:      record,
		Condition: cond,
	}}, nil
}

// Save builds an unconditional put that replaces any stored requirement.
func (r RequirementItem) Save() (storagemodels.WriteItem, error) {
	return r.put(storagemodels.NoCondition())
}

// SaveNew builds a put that only succeeds when the requirement does not exist.
// r.Version must be 1.
func (r RequirementItem) SaveNew() (storagemodels.WriteItem, error) {
	return r.put(storagemodels.CreateOnly())
}

// SaveUpdate builds a put that only succeeds when r.Version is one more than
// the stored version.
func (r RequirementItem) SaveUpdate() (storagemodels.WriteItem, error) {
	return r.put(storagemodels.UpdateNextVersion())
}

// Delete builds an unconditional delete of r.
func (r RequirementItem) Delete() storagemodels.WriteItem {
	return storagemodels.WriteItem{Delete: &storagemodels.Delete{
		Table:     registry.Requirements,
		Key:       requirementKey(r.RequirementID),
		Condition: storagemodels.NoCondition(),
	}}
}

// DeleteExpecting builds a delete that only succeeds when the stored version
// equals r.Version.
func (r RequirementItem) DeleteExpecting() storagemodels.WriteItem {
	return storagemodels.WriteItem{Delete: &storagemodels.Delete{
		Table:     registry.Requirements,
		Key:       requirementKey(r.RequirementID),
		Condition: storagemodels.DeleteExpectingVersion(r.Version),
	}}
}

func requirementKey(id uuid.UUID) storagemodels.Record {
	return storagemodels.Record{"RequirementId": attribute.UUID(id)}
}

// GetRequirement addresses the requirement with id.
func GetRequirement(id uuid.UUID) storagemodels.Get {
	return storagemodels.Get{Table: registry.Requirements, Key: requirementKey(id)}
}

// LoadRequirement reads a requirement, returning nil when it does not exist.
func LoadRequirement(ctx context.Context, store datastore.DataStore, id uuid.UUID) (*RequirementItem, error) {
	record, err := store.ReadSingle(ctx, GetRequirement(id))
	if err != nil || record == nil {
		return nil, err
	}
	req, err := RequirementFromRecord(record)
	if err != nil {
		return nil, fmt.Errorf("requirement %s: %w", id, err)
	}
	return &req, nil
}

// ListRequirementsByCity returns every requirement scored for city.
func ListRequirementsByCity(ctx context.Context, store datastore.DataStore, city string) ([]RequirementItem, error) {
	return queryAll(ctx, store, &storagemodels.QueryParams{
		Table:     registry.Requirements,
		IndexName: registry.CityCodeIndex,
		Key:       storagemodels.Equality{Attribute: "CityCode", Value: attribute.String(city)},
	}, RequirementFromRecord)
}
