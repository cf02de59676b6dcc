/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

Reads go through TransactGetItems and writes through TransactWriteItems, so a
batch passed to Write commits atomically. Conditions are translated to
DynamoDB condition expressions:

	MustNotExist       attribute_not_exists(<partition key>)
	ExpectNextVersion  version = :old_version   (:old_version = item version - 1)
	ExpectVersion      version = :old_version

A failed condition comes back as a TransactionCanceledException. The store
asks DynamoDB for the stored item on failure and uses it to tell a missing
item from a stale version.

Queries without a Limit follow LastEvaluatedKey until the result is complete.
Throttling and server faults are retried with a linear backoff:

	store := ddb.NewStore(client, names,
	    ddb.WithLogger(logger),
	    ddb.WithRetry(ddb.RetryOptions{MaxRetries: 5, Backoff: 200 * time.Millisecond}),
	)
*/
package ddb
