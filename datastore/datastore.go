/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// DataStore is the storage port every higher layer depends on.
type DataStore interface {
	// ReadSingle returns the item addressed by get, or nil when it is absent.
	ReadSingle(ctx context.Context, get storagemodels.Get) (storagemodels.Record, error)

	// Write applies a batch of conditional puts and deletes.
	Write(ctx context.Context, items []storagemodels.WriteItem) error

	// WriteSingle applies one conditional put or delete.
	WriteSingle(ctx context.Context, item storagemodels.WriteItem) error

	// Query returns every item matching params in one call.
	Query(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryOutput, error)
}
