/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package planner

import (
	"github.com/Nick-Sullivan/house-planner/entities"
)

// MaxScore is the score of a tile reachable instantly.
const MaxScore = 100

// Score converts a travel duration into a score between 0 and MaxScore:
// 100 - min(100, floor(100 * duration / tolerated)).
func Score(duration, tolerated int32) int32 {
	if tolerated <= 0 {
		return 0
	}
	if duration < 0 {
		duration = 0
	}
	penalty := int64(MaxScore) * int64(duration) / int64(tolerated)
	if penalty > MaxScore {
		penalty = MaxScore
	}
	return MaxScore - int32(penalty)
}

type pair struct {
	source      string
	destination string
}

// DistanceIndex looks up spatial distances by (source, destination).
type DistanceIndex map[pair]entities.SpatialDistanceItem

// NewDistanceIndex indexes items. A later item for the same pair replaces an
// earlier one.
func NewDistanceIndex(items ...entities.SpatialDistanceItem) DistanceIndex {
	index := make(DistanceIndex, len(items))
	index.Add(items...)
	return index
}

// Add indexes more items.
func (d DistanceIndex) Add(items ...entities.SpatialDistanceItem) {
	for _, item := range items {
		d[pair{source: item.SourceIndex, destination: item.DestinationIndex}] = item
	}
}

// Lookup returns the item for source → destination.
func (d DistanceIndex) Lookup(source, destination string) (entities.SpatialDistanceItem, bool) {
	item, ok := d[pair{source: source, destination: destination}]
	return item, ok
}

// Shortest returns the shortest mode duration from any anchor to destination.
// A destination that is itself an anchor takes no time. Pairs missing from the
// index are beyond tolerance and do not take part; ok is false when no anchor
// reaches destination at all.
func (d DistanceIndex) Shortest(anchors []string, destination string, mode entities.TravelMode) (duration int32, ok bool) {
	for _, anchor := range anchors {
		if anchor == destination {
			return 0, true
		}
		item, found := d.Lookup(anchor, destination)
		if !found {
			continue
		}
		candidate, known := item.Duration(mode)
		if !known {
			continue
		}
		if !ok || candidate < duration {
			duration = candidate
			ok = true
		}
	}
	return duration, ok
}

// ComputeTileScores scores every destination tile for a requirement anchored
// at anchors. The result follows the order of destinations.
func ComputeTileScores(index DistanceIndex, anchors, destinations []string, mode entities.TravelMode, tolerated int32) []entities.MapTile {
	scores := make([]entities.MapTile, 0, len(destinations))
	for _, destination := range destinations {
		tile := entities.MapTile{H3Index: destination}
		if duration, ok := index.Shortest(anchors, destination, mode); ok {
			tile.Score = Score(duration, tolerated)
		}
		scores = append(scores, tile)
	}
	return scores
}

// distinctAnchors returns the anchor tiles of locations in first-seen order.
func distinctAnchors(locations []Location) []string {
	seen := make(map[string]bool, len(locations))
	anchors := make([]string, 0, len(locations))
	for _, loc := range locations {
		if seen[loc.H3Index] {
			continue
		}
		seen[loc.H3Index] = true
		anchors = append(anchors, loc.H3Index)
	}
	return anchors
}
