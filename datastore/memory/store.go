/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package memory provides an in-process implementation of datastore.DataStore
// used for tests and local development.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

var _ datastore.DataStore = (*Store)(nil)

// itemKey addresses an item inside one table. sort is empty for tables keyed
// by partition only.
type itemKey struct {
	partition string
	sort      string
}

func (k itemKey) String() string {
	if k.sort == "" {
		return k.partition
	}
	return k.partition + "|" + k.sort
}

func compareKeys(a, b itemKey) int {
	if c := cmp.Compare(a.partition, b.partition); c != 0 {
		return c
	}
	return cmp.Compare(a.sort, b.sort)
}

type table struct {
	schema registry.TableSchema
	mu     sync.RWMutex
	items  map[itemKey]storagemodels.Record
}

func (t *table) keyOf(record storagemodels.Record) (itemKey, error) {
	var k itemKey
	var err error
	if k.partition, err = attribute.ParseString(record, t.schema.Key.PartitionKey); err != nil {
		return itemKey{}, fmt.Errorf("%s key: %w", t.schema.Kind, err)
	}
	if t.schema.Key.Composite() {
		if k.sort, err = attribute.ParseString(record, t.schema.Key.SortKey); err != nil {
			return itemKey{}, fmt.Errorf("%s key: %w", t.schema.Kind, err)
		}
	}
	return k, nil
}

// Store is a set of in-memory tables, one per registry.TableKind, each
// guarded by its own reader-writer lock.
type Store struct {
	tables map[registry.TableKind]*table
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for write diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty Store holding every registered table.
func New(opts ...Option) *Store {
	s := &Store{
		tables: make(map[registry.TableKind]*table, len(registry.Kinds)),
		logger: slog.Default(),
	}
	for _, kind := range registry.Kinds {
		schema, _ := registry.Schema(kind)
		s.tables[kind] = &table{
			schema: schema,
			items:  make(map[itemKey]storagemodels.Record),
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) table(kind registry.TableKind) (*table, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, errors.NewUnsupportedOperationError(fmt.Sprintf("unknown table %s", kind))
	}
	return t, nil
}

// ReadSingle returns a copy of the addressed item, or nil when it is absent.
func (s *Store) ReadSingle(ctx context.Context, get storagemodels.Get) (storagemodels.Record, error) {
	t, err := s.table(get.Table)
	if err != nil {
		return nil, err
	}
	key, err := t.keyOf(get.Key)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	item, ok := t.items[key]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

// Write applies items in order. Every item is validated before any is applied,
// but a conditional failure part-way through leaves earlier items applied.
func (s *Store) Write(ctx context.Context, items []storagemodels.WriteItem) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("write item %d: %w", i, err)
		}
	}
	for i, item := range items {
		if err := s.WriteSingle(ctx, item); err != nil {
			return fmt.Errorf("write item %d: %w", i, err)
		}
	}
	return nil
}

// WriteSingle applies one put or delete.
func (s *Store) WriteSingle(ctx context.Context, item storagemodels.WriteItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.Put != nil {
		return s.put(*item.Put)
	}
	return s.delete(*item.Delete)
}

func (s *Store) put(put storagemodels.Put) error {
	t, err := s.table(put.Table)
	if err != nil {
		return err
	}
	key, err := t.keyOf(put.Item)
	if err != nil {
		return err
	}
	item := put.Item.Clone()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := checkPut(t, key, put.Condition, t.items[key], item); err != nil {
		s.logger.Warn("put rejected", "table", t.schema.Kind.String(), "key", key.String(), "condition", put.Condition.Kind.String(), "error", err)
		return err
	}
	t.items[key] = item
	s.logger.Debug("put", "table", t.schema.Kind.String(), "key", key.String())
	return nil
}

func (s *Store) delete(del storagemodels.Delete) error {
	t, err := s.table(del.Table)
	if err != nil {
		return err
	}
	key, err := t.keyOf(del.Key)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := checkDelete(t, key, del.Condition, t.items[key]); err != nil {
		s.logger.Warn("delete rejected", "table", t.schema.Kind.String(), "key", key.String(), "condition", del.Condition.Kind.String(), "error", err)
		return err
	}
	delete(t.items, key)
	s.logger.Debug("delete", "table", t.schema.Kind.String(), "key", key.String())
	return nil
}

func checkPut(t *table, key itemKey, cond storagemodels.Condition, existing, item storagemodels.Record) error {
	tableName := t.schema.Kind.String()
	switch cond.Kind {
	case storagemodels.Unconditional:
		if existing == nil {
			return storagemodels.CheckInitialVersion(t.schema, key.String(), item)
		}
		if t.schema.Versioned {
			_, err := storagemodels.Version(item)
			return err
		}
		return nil
	case storagemodels.MustNotExist:
		if existing != nil {
			return errors.NewAlreadyExistsError(tableName, key.String())
		}
		return storagemodels.CheckInitialVersion(t.schema, key.String(), item)
	case storagemodels.ExpectNextVersion:
		if existing == nil {
			return errors.NewNotFoundError(tableName, key.String())
		}
		declared, err := storagemodels.Version(item)
		if err != nil {
			return err
		}
		stored, err := storagemodels.Version(existing)
		if err != nil {
			return err
		}
		if declared != stored+1 {
			return errors.NewVersionMismatchError(tableName, key.String(), declared-1, stored)
		}
		return nil
	default:
		return errors.NewUnsupportedOperationError(fmt.Sprintf("put with condition %s", cond.Kind))
	}
}

func checkDelete(t *table, key itemKey, cond storagemodels.Condition, existing storagemodels.Record) error {
	tableName := t.schema.Kind.String()
	switch cond.Kind {
	case storagemodels.Unconditional:
		return nil
	case storagemodels.ExpectVersion:
		if existing == nil {
			return errors.NewNotFoundError(tableName, key.String())
		}
		stored, err := storagemodels.Version(existing)
		if err != nil {
			return err
		}
		if stored != cond.Version {
			return errors.NewVersionMismatchError(tableName, key.String(), cond.Version, stored)
		}
		return nil
	default:
		return errors.NewUnsupportedOperationError(fmt.Sprintf("delete with condition %s", cond.Kind))
	}
}

// Query scans the table for items whose key attribute equals the requested
// value. Results are ordered by primary key.
func (s *Store) Query(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryOutput, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query params are required")
	}
	t, err := s.table(params.Table)
	if err != nil {
		return nil, err
	}
	if err := params.Validate(t.schema); err != nil {
		return nil, err
	}

	var start *itemKey
	if params.ExclusiveStartKey != nil {
		k, err := t.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, fmt.Errorf("exclusive start key: %w", err)
		}
		start = &k
	}

	type match struct {
		key  itemKey
		item storagemodels.Record
	}
	var matches []match

	t.mu.RLock()
	for key, item := range t.items {
		if !hasEquality(item, params.Key) {
			continue
		}
		if params.Filter != nil && !hasEquality(item, *params.Filter) {
			continue
		}
		if start != nil && compareKeys(key, *start) <= 0 {
			continue
		}
		matches = append(matches, match{key: key, item: item.Clone()})
	}
	t.mu.RUnlock()

	slices.SortFunc(matches, func(a, b match) int { return compareKeys(a.key, b.key) })

	out := &storagemodels.QueryOutput{}
	if params.Limit > 0 && len(matches) > int(params.Limit) {
		matches = matches[:params.Limit]
		last, err := storagemodels.KeyOf(t.schema, matches[len(matches)-1].item)
		if err != nil {
			return nil, err
		}
		out.LastEvaluatedKey = last
	}
	out.Items = make([]storagemodels.Record, 0, len(matches))
	for _, m := range matches {
		out.Items = append(out.Items, m.item)
	}
	out.Count = len(out.Items)
	return out, nil
}

func hasEquality(item storagemodels.Record, eq storagemodels.Equality) bool {
	av, ok := item[eq.Attribute]
	return ok && attribute.Equal(av, eq.Value)
}

// Len returns the number of items stored in kind's table.
func (s *Store) Len(kind registry.TableKind) int {
	t, err := s.table(kind)
	if err != nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Clear removes every item from every table.
func (s *Store) Clear() {
	for _, t := range s.tables {
		t.mu.Lock()
		t.items = make(map[itemKey]storagemodels.Record)
		t.mu.Unlock()
	}
}
