/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package registry

import (
	"fmt"
	"strings"
	"sync"
)

// TableKind identifies one of the fixed tables the planner stores data in.
type TableKind int

const (
	Requirements TableKind = iota + 1
	SpatialDistances
	Houses
)

// Kinds lists every table kind in a stable order.
var Kinds = []TableKind{Requirements, SpatialDistances, Houses}

func (k TableKind) String() string {
	switch k {
	case Requirements:
		return "Requirements"
	case SpatialDistances:
		return "SpatialDistances"
	case Houses:
		return "Houses"
	default:
		return fmt.Sprintf("TableKind(%d)", int(k))
	}
}

// CityCodeIndex is the secondary index every table carries on CityCode.
const CityCodeIndex = "CityCodeIndex"

// KeySchema names the primary key columns of a table. SortKey is empty for
// tables addressed by partition key alone.
type KeySchema struct {
	PartitionKey string
	SortKey      string
}

// Composite reports whether the table uses a partition+sort key.
func (s KeySchema) Composite() bool {
	return s.SortKey != ""
}

// Columns returns the key columns in partition, sort order.
func (s KeySchema) Columns() []string {
	if s.Composite() {
		return []string{s.PartitionKey, s.SortKey}
	}
	return []string{s.PartitionKey}
}

// IndexSchema describes a secondary access path.
type IndexSchema struct {
	Name         string
	PartitionKey string
}

// TableSchema is the compiled description of one table kind.
type TableSchema struct {
	Kind    TableKind
	Key     KeySchema
	Indexes map[string]IndexSchema
	// Versioned tables carry a numeric "version" attribute for optimistic concurrency.
	Versioned bool
}

// VersionAttribute is the attribute holding a record's optimistic concurrency version.
const VersionAttribute = "version"

var cityIndex = map[string]IndexSchema{
	CityCodeIndex: {Name: CityCodeIndex, PartitionKey: "CityCode"},
}

var schemas = map[TableKind]TableSchema{
	Requirements: {
		Kind:      Requirements,
		Key:       KeySchema{PartitionKey: "RequirementId"},
		Indexes:   cityIndex,
		Versioned: true,
	},
	SpatialDistances: {
		Kind:    SpatialDistances,
		Key:     KeySchema{PartitionKey: "SourceIndex", SortKey: "DestinationIndex"},
		Indexes: cityIndex,
	},
	Houses: {
		Kind:    Houses,
		Key:     KeySchema{PartitionKey: "H3Index", SortKey: "Address"},
		Indexes: cityIndex,
	},
}

// Schema returns the compiled schema for kind.
func Schema(kind TableKind) (TableSchema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// KindForTableName resolves a deployment table name such as "prod-SpatialDistances"
// to its kind by suffix. It is meant to run once, when configuration is loaded.
func KindForTableName(name string) (TableKind, error) {
	for _, kind := range Kinds {
		if strings.HasSuffix(name, kind.String()) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unrecognised table %q", name)
}

// TableNames maps each kind to the physical table name of a deployment.
type TableNames struct {
	mu    sync.RWMutex
	names map[TableKind]string
}

// NewTableNames resolves every provided name to its kind. Each kind may be
// bound at most once.
func NewTableNames(names ...string) (*TableNames, error) {
	tn := &TableNames{names: make(map[TableKind]string, len(names))}
	for _, name := range names {
		kind, err := KindForTableName(name)
		if err != nil {
			return nil, err
		}
		if err := tn.Register(kind, name); err != nil {
			return nil, err
		}
	}
	return tn, nil
}

// Register binds a physical name to kind.
func (tn *TableNames) Register(kind TableKind, name string) error {
	tn.mu.Lock()
	defer tn.mu.Unlock()

	if existing, ok := tn.names[kind]; ok {
		return fmt.Errorf("table kind %s already bound to %q", kind, existing)
	}
	tn.names[kind] = name
	return nil
}

// Name returns the physical name bound to kind.
func (tn *TableNames) Name(kind TableKind) (string, bool) {
	tn.mu.RLock()
	defer tn.mu.RUnlock()
	name, ok := tn.names[kind]
	return name, ok
}
