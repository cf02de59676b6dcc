/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package entities maps the planner's domain records to and from stored
// records, and builds the storage requests that read and write them.
//
// Entities are values: every read decodes a fresh copy and nothing returned
// here aliases storage state.
package entities

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// Page is one page of a paginated listing. Cursor is empty on the last page.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// marshalRow encodes a dynamodbav-tagged row into a stored record.
func marshalRow(row any) (storagemodels.Record, error) {
	av, err := attributevalue.MarshalMap(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", row, err)
	}
	return storagemodels.Record(av), nil
}

// queryAll runs params and decodes every returned item.
func queryAll[T any](ctx context.Context, store datastore.DataStore, params *storagemodels.QueryParams, decode func(storagemodels.Record) (T, error)) ([]T, error) {
	out, err := store.Query(ctx, params)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(out.Items))
	for _, record := range out.Items {
		item, err := decode(record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// queryPage runs params from cursor and returns at most limit items with the
// cursor of the next page.
func queryPage[T any](ctx context.Context, store datastore.DataStore, params *storagemodels.QueryParams, limit int32, cursor string, decode func(storagemodels.Record) (T, error)) (Page[T], error) {
	start, err := storagemodels.DecodeCursor(cursor)
	if err != nil {
		return Page[T]{}, err
	}
	params.Limit = limit
	params.ExclusiveStartKey = start

	out, err := store.Query(ctx, params)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Items: make([]T, 0, len(out.Items))}
	for _, record := range out.Items {
		item, err := decode(record)
		if err != nil {
			return Page[T]{}, err
		}
		page.Items = append(page.Items, item)
	}
	if page.Cursor, err = storagemodels.EncodeCursor(out.LastEvaluatedKey); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}
