/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package api

import (
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/planner"
)

const (
	defaultHouseLimit = 50
	maxHouseLimit     = 500
)

type requirementResponse struct {
	RequirementID uuid.UUID          `json:"requirement_id"`
	CityCode      string             `json:"city_code"`
	Version       int32              `json:"version"`
	UpdatedAt     strfmt.DateTime    `json:"updated_at"`
	MapTiles      []entities.MapTile `json:"map_tiles"`
}

func (s *Server) scoreRequirement(w http.ResponseWriter, r *http.Request) {
	var req planner.RequirementRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.planner.ScoreRequirement(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, requirementResponse{
		RequirementID: item.RequirementID,
		CityCode:      item.CityCode,
		Version:       item.Version,
		UpdatedAt:     item.UpdatedAt,
		MapTiles:      item.MapTiles,
	})
}

type mapRequest struct {
	CityCode       string      `json:"city_code"`
	RequirementIDs []uuid.UUID `json:"requirement_ids"`
}

func (s *Server) aggregate(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	composite, err := s.planner.Aggregate(r.Context(), req.CityCode, req.RequirementIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, composite)
}

type houseResponse struct {
	H3Index      string  `json:"h3_index"`
	Address      string  `json:"address"`
	CityCode     string  `json:"city_code"`
	URL          string  `json:"url,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	PriceLower   int32   `json:"price_lower"`
	PriceUpper   int32   `json:"price_upper"`
	NumBathrooms int32   `json:"num_bathrooms"`
	NumBedrooms  int32   `json:"num_bedrooms"`
	NumCarspaces int32   `json:"num_carspaces"`
	PropertyType string  `json:"property_type"`
}

type housesResponse struct {
	Houses []houseResponse `json:"houses"`
	Cursor string          `json:"cursor,omitempty"`
}

// listHouses serves GET /houses?city=ADL or GET /houses?h3_index=..., with
// optional limit and cursor.
func (s *Server) listHouses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city, h3Index := q.Get("city"), q.Get("h3_index")
	if (city == "") == (h3Index == "") {
		s.writeError(w, r, errors.NewValidationError("city", "exactly one of city or h3_index is required"))
		return
	}

	limit := int32(defaultHouseLimit)
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 || v > maxHouseLimit {
			s.writeError(w, r, errors.NewValidationError("limit", "must be between 1 and "+strconv.Itoa(maxHouseLimit)))
			return
		}
		limit = int32(v)
	}
	cursor := q.Get("cursor")

	var (
		page entities.Page[entities.HouseItem]
		err  error
	)
	if city != "" {
		page, err = entities.ListHousesByCity(r.Context(), s.store, city, limit, cursor)
	} else {
		page, err = entities.ListHousesByH3Index(r.Context(), s.store, h3Index, limit, cursor)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := housesResponse{Houses: make([]houseResponse, 0, len(page.Items)), Cursor: page.Cursor}
	for _, h := range page.Items {
		resp.Houses = append(resp.Houses, houseResponse(h))
	}
	s.writeJSON(w, http.StatusOK, resp)
}
