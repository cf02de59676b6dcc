/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package seed bulk-loads reference data (spatial distances and houses) from
// CSV into any DataStore.
package seed

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/entities"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// BatchSize is the number of writes sent per DataStore.Write call.
const BatchSize = 25

// SpatialDistanceColumns is the required header of a spatial distance CSV.
var SpatialDistanceColumns = []string{
	"source_index", "destination_index", "city_code",
	"duration_cycle", "duration_drive", "duration_transit", "duration_walk",
}

// HouseColumns is the required header of a houses CSV.
var HouseColumns = []string{
	"h3_index", "address", "city_code", "url", "lat", "lng",
	"price_lower", "price_upper", "num_bathrooms", "num_bedrooms", "num_carspaces", "property_type",
}

// Loader writes parsed rows to a store.
type Loader struct {
	store  datastore.DataStore
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader creates a Loader. A nil logger uses slog.Default().
func NewLoader(store datastore.DataStore, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, logger: logger, now: time.Now}
}

// SpatialDistances loads every row of r and returns how many were written.
func (l *Loader) SpatialDistances(ctx context.Context, r io.Reader) (int, error) {
	return l.load(ctx, "spatial_distances", r, SpatialDistanceColumns, func(row record) (storagemodels.WriteItem, error) {
		item, err := parseSpatialDistance(row)
		if err != nil {
			return storagemodels.WriteItem{}, err
		}
		return item.Save()
	})
}

// Houses loads every row of r and returns how many were written.
func (l *Loader) Houses(ctx context.Context, r io.Reader) (int, error) {
	now := l.now()
	return l.load(ctx, "houses", r, HouseColumns, func(row record) (storagemodels.WriteItem, error) {
		item, err := parseHouse(row)
		if err != nil {
			return storagemodels.WriteItem{}, err
		}
		return item.Save(now)
	})
}

// SpatialDistancesFile loads a spatial distance CSV from path.
func (l *Loader) SpatialDistancesFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return l.SpatialDistances(ctx, f)
}

// HousesFile loads a houses CSV from path.
func (l *Loader) HousesFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return l.Houses(ctx, f)
}

func (l *Loader) load(ctx context.Context, name string, r io.Reader, columns []string, build func(record) (storagemodels.WriteItem, error)) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%s: read header: %w", name, err)
	}
	index, err := columnIndex(header, columns)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	written := 0
	batch := make([]storagemodels.WriteItem, 0, BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.store.Write(ctx, batch); err != nil {
			return err
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		item, err := build(record{fields: fields, index: index})
		if err != nil {
			return written, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		batch = append(batch, item)
		if len(batch) == BatchSize {
			if err := flush(); err != nil {
				return written, fmt.Errorf("%s line %d: %w", name, line, err)
			}
		}
	}
	if err := flush(); err != nil {
		return written, fmt.Errorf("%s: %w", name, err)
	}

	l.logger.Info("seed loaded", "table", name, "items", written)
	return written, nil
}

func columnIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, errors.NewValidationError(col, "missing column")
		}
	}
	return index, nil
}

type record struct {
	fields []string
	index  map[string]int
}

func (r record) str(col string) string {
	i := r.index[col]
	if i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) integer(col string) (int32, error) {
	v, err := strconv.ParseInt(r.str(col), 10, 32)
	if err != nil {
		return 0, errors.NewTypeMismatchError(col, "32-bit integer")
	}
	return int32(v), nil
}

func (r record) decimal(col string) (float64, error) {
	v, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		return 0, errors.NewTypeMismatchError(col, "float")
	}
	return v, nil
}

func (r record) required(col string) (string, error) {
	v := r.str(col)
	if v == "" {
		return "", errors.NewMissingFieldError(col)
	}
	return v, nil
}

func parseSpatialDistance(r record) (entities.SpatialDistanceItem, error) {
	var s entities.SpatialDistanceItem
	var err error
	if s.SourceIndex, err = r.required("source_index"); err != nil {
		return s, err
	}
	if s.DestinationIndex, err = r.required("destination_index"); err != nil {
		return s, err
	}
	if s.CityCode, err = r.required("city_code"); err != nil {
		return s, err
	}
	if s.DurationCycle, err = r.integer("duration_cycle"); err != nil {
		return s, err
	}
	if s.DurationDrive, err = r.integer("duration_drive"); err != nil {
		return s, err
	}
	if s.DurationTransit, err = r.integer("duration_transit"); err != nil {
		return s, err
	}
	if s.DurationWalk, err = r.integer("duration_walk"); err != nil {
		return s, err
	}
	for _, d := range []int32{s.DurationCycle, s.DurationDrive, s.DurationTransit, s.DurationWalk} {
		if d < 0 {
			return s, errors.NewValidationError("duration", "durations must not be negative")
		}
	}
	return s, nil
}

func parseHouse(r record) (entities.HouseItem, error) {
	var h entities.HouseItem
	var err error
	if h.H3Index, err = r.required("h3_index"); err != nil {
		return h, err
	}
	if h.Address, err = r.required("address"); err != nil {
		return h, err
	}
	if h.CityCode, err = r.required("city_code"); err != nil {
		return h, err
	}
	h.URL = r.str("url")
	h.PropertyType = r.str("property_type")
	if h.Lat, err = r.decimal("lat"); err != nil {
		return h, err
	}
	if h.Lng, err = r.decimal("lng"); err != nil {
		return h, err
	}
	ints := []struct {
		col string
		dst *int32
	}{
		{"price_lower", &h.PriceLower},
		{"price_upper", &h.PriceUpper},
		{"num_bathrooms", &h.NumBathrooms},
		{"num_bedrooms", &h.NumBedrooms},
		{"num_carspaces", &h.NumCarspaces},
	}
	for _, f := range ints {
		if *f.dst, err = r.integer(f.col); err != nil {
			return h, err
		}
	}
	return h, nil
}
