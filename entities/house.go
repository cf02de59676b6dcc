/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package entities

import (
	"context"
	"time"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// HouseTTL is how long a listing stays in the Houses table after it is saved.
const HouseTTL = 24 * time.Hour

// HouseItem is a listed property. Houses are reference data: loaded in bulk and
// never changed by the planner.
type HouseItem struct {
	H3Index      string
	Address      string
	CityCode     string
	URL          string
	Lat          float64
	Lng          float64
	PriceLower   int32
	PriceUpper   int32
	NumBathrooms int32
	NumBedrooms  int32
	NumCarspaces int32
	PropertyType string
}

type houseRow struct {
	H3Index      string  `dynamodbav:"H3Index"`
	Address      string  `dynamodbav:"Address"`
	CityCode     string  `dynamodbav:"CityCode"`
	URL          string  `dynamodbav:"Url,omitempty"`
	Lat          float64 `dynamodbav:"Lat"`
	Lng          float64 `dynamodbav:"Lng"`
	PriceLower   int32   `dynamodbav:"PriceLower"`
	PriceUpper   int32   `dynamodbav:"PriceUpper"`
	NumBathrooms int32   `dynamodbav:"NumBathrooms"`
	NumBedrooms  int32   `dynamodbav:"NumBedrooms"`
	NumCarspaces int32   `dynamodbav:"NumCarspaces"`
	PropertyType string  `dynamodbav:"PropertyType,omitempty"`
	TimeToLive   int64   `dynamodbav:"TimeToLive"`
}

// HouseFromRecord decodes a stored house. TimeToLive is storage bookkeeping
// and is not read back.
func HouseFromRecord(r storagemodels.Record) (HouseItem, error) {
	var h HouseItem
	var err error
	if h.H3Index, err = attribute.ParseString(r, "H3Index"); err != nil {
		return HouseItem{}, err
	}
	if h.Address, err = attribute.ParseString(r, "Address"); err != nil {
		return HouseItem{}, err
	}
	if h.CityCode, err = attribute.ParseString(r, "CityCode"); err != nil {
		return HouseItem{}, err
	}
	if h.URL, err = optionalString(r, "Url"); err != nil {
		return HouseItem{}, err
	}
	if h.Lat, err = attribute.ParseFloat64(r, "Lat"); err != nil {
		return HouseItem{}, err
	}
	if h.Lng, err = attribute.ParseFloat64(r, "Lng"); err != nil {
		return HouseItem{}, err
	}
	if h.PriceLower, err = attribute.ParseInt32(r, "PriceLower"); err != nil {
		return HouseItem{}, err
	}
	if h.PriceUpper, err = attribute.ParseInt32(r, "PriceUpper"); err != nil {
		return HouseItem{}, err
	}
	if h.NumBathrooms, err = attribute.ParseInt32(r, "NumBathrooms"); err != nil {
		return HouseItem{}, err
	}
	if h.NumBedrooms, err = attribute.ParseInt32(r, "NumBedrooms"); err != nil {
		return HouseItem{}, err
	}
	if h.NumCarspaces, err = attribute.ParseInt32(r, "NumCarspaces"); err != nil {
		return HouseItem{}, err
	}
	if h.PropertyType, err = optionalString(r, "PropertyType"); err != nil {
		return HouseItem{}, err
	}
	return h, nil
}

// optionalString reads a string that is omitted from the record when empty.
func optionalString(r storagemodels.Record, name string) (string, error) {
	v, err := attribute.ParseOptionalString(r, name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

// Record encodes h for storage, expiring HouseTTL after now.
func (h HouseItem) Record(now time.Time) (storagemodels.Record, error) {
	return marshalRow(houseRow{
		H3Index:      h.H3Index,
		Address:      h.Address,
		CityCode:     h.CityCode,
		URL:          h.URL,
		Lat:          h.Lat,
		Lng:          h.Lng,
		PriceLower:   h.PriceLower,
		PriceUpper:   h.PriceUpper,
		NumBathrooms: h.NumBathrooms,
		NumBedrooms:  h.NumBedrooms,
		NumCarspaces: h.NumCarspaces,
		PropertyType: h.PropertyType,
		TimeToLive:   now.Add(HouseTTL).Unix(),
	})
}

// Save builds an unconditional put of h.
func (h HouseItem) Save(now time.Time) (storagemodels.WriteItem, error) {
	record, err := h.Record(now)
	if err != nil {
		return storagemodels.WriteItem{}, err
	}
	return storagemodels.WriteItem{Put: &storagemodels.Put{
		Table:     registry.Houses,
		Item:      record,
		Condition: storagemodels.NoCondition(),
	}}, nil
}

// ListHousesByCity returns one page of the houses in city.
func ListHousesByCity(ctx context.Context, store datastore.DataStore, city string, limit int32, cursor string) (Page[HouseItem], error) {
	return queryPage(ctx, store, &storagemodels.QueryParams{
		Table:     registry.Houses,
		IndexName: registry.CityCodeIndex,
		Key:       storagemodels.Equality{Attribute: "CityCode", Value: attribute.String(city)},
	}, limit, cursor, HouseFromRecord)
}

// ListHousesByH3Index returns one page of the houses inside a tile.
func ListHousesByH3Index(ctx context.Context, store datastore.DataStore, h3Index string, limit int32, cursor string) (Page[HouseItem], error) {
	return queryPage(ctx, store, &storagemodels.QueryParams{
		Table: registry.Houses,
		Key:   storagemodels.Equality{Attribute: "H3Index", Value: attribute.String(h3Index)},
	}, limit, cursor, HouseFromRecord)
}
