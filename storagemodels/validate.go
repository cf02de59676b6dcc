/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
)

// Validate checks that the key condition targets the table's partition key, or
// the partition key of the named index.
func (p *QueryParams) Validate(schema registry.TableSchema) error {
	if p.Key.Value == nil {
		return errors.NewValidationError("Key", "key condition value is required")
	}
	if p.Filter != nil && p.Filter.Value == nil {
		return errors.NewValidationError("Filter", "filter value is required")
	}
	if p.Limit < 0 {
		return errors.NewValidationError("Limit", "must not be negative")
	}
	if p.IndexName == "" {
		if p.Key.Attribute != schema.Key.PartitionKey {
			return errors.NewUnsupportedOperationError(fmt.Sprintf("query %s on non-key attribute %q", schema.Kind, p.Key.Attribute))
		}
		return nil
	}
	index, ok := schema.Indexes[p.IndexName]
	if !ok {
		return errors.NewUnsupportedOperationError(fmt.Sprintf("unknown index %q on %s", p.IndexName, schema.Kind))
	}
	if p.Key.Attribute != index.PartitionKey {
		return errors.NewUnsupportedOperationError(fmt.Sprintf("query %s on %q with key %q", p.IndexName, index.PartitionKey, p.Key.Attribute))
	}
	return nil
}

// CheckInitialVersion rejects a create of a versioned item whose version is not 1.
func CheckInitialVersion(schema registry.TableSchema, key string, item Record) error {
	if !schema.Versioned {
		return nil
	}
	v, err := Version(item)
	if err != nil {
		return err
	}
	if v != 1 {
		return errors.NewVersionMismatchError(schema.Kind.String(), key, 1, v)
	}
	return nil
}
