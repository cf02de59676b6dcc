/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package planner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
)

// Location is one anchor of a requirement, e.g. a workplace or a school.
type Location struct {
	ID      int32   `json:"id"`
	Address string  `json:"address"`
	H3Index string  `json:"h3_index"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// RequirementRequest asks for a requirement to be scored across its city.
type RequirementRequest struct {
	RequirementID     uuid.UUID           `json:"requirement_id"`
	CityCode          string              `json:"city_code"`
	TravelMode        entities.TravelMode `json:"travel_mode"`
	Locations         []Location          `json:"locations"`
	ToleratedDuration int32               `json:"tolerated_duration"`
}

// Validate reports the first problem with r.
func (r RequirementRequest) Validate() error {
	if r.RequirementID == uuid.Nil {
		return errors.NewValidationError("requirement_id", "is required")
	}
	if strings.TrimSpace(r.CityCode) == "" {
		return errors.NewValidationError("city_code", "is required")
	}
	if !r.TravelMode.Valid() {
		return errors.NewValidationError("travel_mode", "must be one of Driving, Walking, Bicycling, PublicTransport")
	}
	if len(r.Locations) == 0 {
		return errors.NewValidationError("locations", "at least one location is required")
	}
	for _, loc := range r.Locations {
		if strings.TrimSpace(loc.H3Index) == "" {
			return errors.NewValidationError("locations", "every location needs an h3_index")
		}
	}
	if r.ToleratedDuration <= 0 {
		return errors.NewValidationError("tolerated_duration", "must be positive")
	}
	return nil
}

// Contribution is the score one requirement gave a tile.
type Contribution struct {
	RequirementID uuid.UUID `json:"requirement_id"`
	Score         int32     `json:"score"`
}

// CompositeTile is a tile of a composite map. Score is the lowest contributing
// score, or 0 when nothing contributed.
type CompositeTile struct {
	H3Index      string         `json:"h3_index"`
	Score        int32          `json:"score"`
	Contributors []Contribution `json:"requirement_scores"`
}

// CompositeMap is the per-tile minimum across a set of requirements.
type CompositeMap struct {
	CityCode string          `json:"city_code"`
	Tiles    []CompositeTile `json:"tiles"`
}
