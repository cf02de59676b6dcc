/*
Package datastore defines the storage port of the planner.

	type DataStore interface {
	    ReadSingle(ctx context.Context, get storagemodels.Get) (storagemodels.Record, error)
	    Write(ctx context.Context, items []storagemodels.WriteItem) error
	    WriteSingle(ctx context.Context, item storagemodels.WriteItem) error
	    Query(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryOutput, error)
	}

Contract:
  - ReadSingle returns (nil, nil) for an absent item; absence is not an error.
  - Write is all-or-nothing on DynamoDB. The in-memory engine applies the batch
    in order and does not roll back earlier items when a later one fails.
  - Conditional failures surface as errors.ErrItemAlreadyExists,
    errors.ErrItemNotFound or errors.ErrVersionMismatch; they are never retried.
  - A write item that is neither a Put nor a Delete, or carries a condition
    that does not apply to its operation, fails with errors.ErrUnsupportedOperation.

Implementations:
  - ddb: DynamoDB, using TransactGetItems / TransactWriteItems / Query
  - memory: in-process tables used for tests and local development
*/
package datastore
