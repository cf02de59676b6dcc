/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package tiles enumerates the H3 tiles covering a city.
package tiles

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Nick-Sullivan/house-planner/errors"
)

// Enumerator lists the tiles of a city. The result is finite and identical
// for repeated calls with the same city.
type Enumerator interface {
	ListTiles(ctx context.Context, city string) ([]string, error)
}

// Static serves tiles from memory.
type Static map[string][]string

// ListTiles implements Enumerator.
func (s Static) ListTiles(_ context.Context, city string) ([]string, error) {
	tiles, ok := s[city]
	if !ok {
		return nil, unknownCity(city)
	}
	return append([]string(nil), tiles...), nil
}

func unknownCity(city string) error {
	return errors.NewValidationError("city_code", fmt.Sprintf("no tiles for city %q", city))
}

// CSVFiles reads each city's tiles from a CSV file whose first column is the
// H3 index. A header row is skipped when its first cell is not a tile index.
// Files are read once and cached.
type CSVFiles struct {
	paths map[string]string

	mu    sync.Mutex
	cache map[string][]string
}

// NewCSVFiles creates an enumerator over paths, keyed by city code.
func NewCSVFiles(paths map[string]string) *CSVFiles {
	return &CSVFiles{paths: paths, cache: make(map[string][]string)}
}

// ListTiles implements Enumerator.
func (c *CSVFiles) ListTiles(_ context.Context, city string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tiles, ok := c.cache[city]; ok {
		return append([]string(nil), tiles...), nil
	}
	path, ok := c.paths[city]
	if !ok {
		return nil, unknownCity(city)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tiles for %s: %w", city, err)
	}
	defer f.Close()

	tiles, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read tiles for %s: %w", city, err)
	}
	c.cache[city] = tiles
	return append([]string(nil), tiles...), nil
}

// ReadCSV returns the first column of every row, in file order, without
// duplicates.
func ReadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var tiles []string
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if line == 1 && !looksLikeIndex(cell) {
			continue
		}
		if seen[cell] {
			continue
		}
		seen[cell] = true
		tiles = append(tiles, cell)
	}
	return tiles, nil
}

// looksLikeIndex reports whether s is a hexadecimal H3 index.
func looksLikeIndex(s string) bool {
	if len(s) != 15 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
