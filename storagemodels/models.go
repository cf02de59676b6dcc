/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
)

// Record is a stored item: attribute name to typed wire value.
type Record map[string]types.AttributeValue

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = attribute.Clone(v)
	}
	return out
}

// ConditionKind selects how a write is checked against the stored item.
type ConditionKind int

const (
	// Unconditional writes overwrite or remove whatever is stored.
	Unconditional ConditionKind = iota
	// MustNotExist rejects a put when the key is already present.
	MustNotExist
	// ExpectNextVersion accepts a put only when the item's version is the stored version + 1.
	ExpectNextVersion
	// ExpectVersion accepts a delete only when the stored version equals Condition.Version.
	ExpectVersion
)

func (k ConditionKind) String() string {
	switch k {
	case Unconditional:
		return "unconditional"
	case MustNotExist:
		return "attribute_not_exists"
	case ExpectNextVersion:
		return "version = :old_version (next)"
	case ExpectVersion:
		return "version = :old_version"
	default:
		return fmt.Sprintf("ConditionKind(%d)", int(k))
	}
}

// Condition guards a single write.
type Condition struct {
	Kind    ConditionKind
	Version int32
}

// NoCondition builds an unconditional write guard.
func NoCondition() Condition { return Condition{Kind: Unconditional} }

// CreateOnly builds a guard that rejects writes over an existing key.
func CreateOnly() Condition { return Condition{Kind: MustNotExist} }

// UpdateNextVersion builds a guard requiring the put to advance the stored version by one.
func UpdateNextVersion() Condition { return Condition{Kind: ExpectNextVersion} }

// DeleteExpectingVersion builds a guard requiring the stored version to equal v.
func DeleteExpectingVersion(v int32) Condition {
	return Condition{Kind: ExpectVersion, Version: v}
}

// Get addresses one item by its full primary key.
type Get struct {
	Table registry.TableKind
	Key   Record
}

// Put writes a full item, replacing any stored item with the same key.
type Put struct {
	Table     registry.TableKind
	Item      Record
	Condition Condition
}

// Delete removes the item addressed by Key.
type Delete struct {
	Table     registry.TableKind
	Key       Record
	Condition Condition
}

// WriteItem is one entry of a write batch. Exactly one of Put or Delete must be set.
type WriteItem struct {
	Put    *Put
	Delete *Delete
}

// Equality is an attribute = value test.
type Equality struct {
	Attribute string
	Value     types.AttributeValue
}

// QueryParams defines parameters for an equality query.
type QueryParams struct {
	// Table is the table to query.
	Table registry.TableKind
	// IndexName is optional; when set, Key must name the index's partition attribute.
	IndexName string
	// Key is the key condition.
	Key Equality
	// Filter is an optional additional equality applied to matching items.
	Filter *Equality
	// Limit caps the number of returned items; zero means no limit.
	Limit int32
	// ExclusiveStartKey resumes after the item with this primary key.
	ExclusiveStartKey Record
}

// QueryOutput is the result of a query.
type QueryOutput struct {
	Items []Record
	Count int
	// LastEvaluatedKey is set when more items remain after Items.
	LastEvaluatedKey Record
}

// KeyOf extracts the primary key attributes of item according to schema.
// Key attributes must be strings.
func KeyOf(schema registry.TableSchema, item Record) (Record, error) {
	key := make(Record, 2)
	for _, col := range schema.Key.Columns() {
		v, err := attribute.ParseString(item, col)
		if err != nil {
			return nil, fmt.Errorf("%s key: %w", schema.Kind, err)
		}
		key[col] = attribute.String(v)
	}
	return key, nil
}

// Version reads the optimistic concurrency version of item.
func Version(item Record) (int32, error) {
	return attribute.ParseInt32(item, registry.VersionAttribute)
}

// Validate checks that exactly one operation is set.
func (w WriteItem) Validate() error {
	switch {
	case w.Put != nil && w.Delete != nil:
		return errors.NewUnsupportedOperationError("write item with both Put and Delete")
	case w.Put == nil && w.Delete == nil:
		return errors.NewUnsupportedOperationError("write item without Put or Delete")
	}
	return nil
}
