/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// maxTransactItems is the DynamoDB limit on operations per transaction.
const maxTransactItems = 100

// API is the subset of the DynamoDB client the store calls.
type API interface {
	TransactGetItems(ctx context.Context, params *sdk.TransactGetItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactGetItemsOutput, error)
	TransactWriteItems(ctx context.Context, params *sdk.TransactWriteItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

var (
	_ API                 = (*sdk.Client)(nil)
	_ datastore.DataStore = (*Store)(nil)
)

// ClientOptions describes how to reach DynamoDB.
type ClientOptions struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when both keys are set, otherwise the default provider chain applies.
func NewDynamoDBClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return client, nil
}

// Store implements datastore.DataStore on DynamoDB transactions and queries.
type Store struct {
	client API
	names  *registry.TableNames
	logger *slog.Logger
	retry  RetryOptions
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetry overrides the query retry policy.
func WithRetry(retry RetryOptions) Option {
	return func(s *Store) {
		s.retry = retry
	}
}

// NewStore creates a Store over client. names resolves each table kind to its
// physical table.
func NewStore(client API, names *registry.TableNames, opts ...Option) *Store {
	s := &Store{
		client: client,
		names:  names,
		logger: slog.Default(),
		retry:  DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) table(kind registry.TableKind) (string, registry.TableSchema, error) {
	schema, ok := registry.Schema(kind)
	if !ok {
		return "", registry.TableSchema{}, errors.NewUnsupportedOperationError(fmt.Sprintf("unknown table %s", kind))
	}
	name, ok := s.names.Name(kind)
	if !ok {
		return "", registry.TableSchema{}, errors.NewUnsupportedOperationError(fmt.Sprintf("no table name configured for %s", kind))
	}
	return name, schema, nil
}

// ReadSingle fetches one item through a single-entry read transaction.
func (s *Store) ReadSingle(ctx context.Context, get storagemodels.Get) (storagemodels.Record, error) {
	name, schema, err := s.table(get.Table)
	if err != nil {
		return nil, err
	}
	key, err := storagemodels.KeyOf(schema, get.Key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.TransactGetItems(ctx, &sdk.TransactGetItemsInput{
		TransactItems: []types.TransactGetItem{{
			Get: &types.Get{TableName: aws.String(name), Key: key},
		}},
	})
	if err != nil {
		return nil, errors.NewBackendError("TransactGetItems", err)
	}
	if len(out.Responses) == 0 || out.Responses[0].Item == nil {
		return nil, nil
	}
	return storagemodels.Record(out.Responses[0].Item), nil
}

// Write applies items as one DynamoDB transaction: either all succeed or none do.
func (s *Store) Write(ctx context.Context, items []storagemodels.WriteItem) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > maxTransactItems {
		return errors.NewUnsupportedOperationError(fmt.Sprintf("write of %d items exceeds the transaction limit of %d", len(items), maxTransactItems))
	}

	transact := make([]types.TransactWriteItem, 0, len(items))
	targets := make([]writeTarget, 0, len(items))
	for i, item := range items {
		ti, target, err := s.translate(item)
		if err != nil {
			return fmt.Errorf("write item %d: %w", i, err)
		}
		transact = append(transact, ti)
		targets = append(targets, target)
	}

	_, err := s.client.TransactWriteItems(ctx, &sdk.TransactWriteItemsInput{TransactItems: transact})
	if err != nil {
		return s.mapWriteError(err, targets)
	}
	s.logger.Debug("transact write", "items", len(items))
	return nil
}

// WriteSingle applies one put or delete.
func (s *Store) WriteSingle(ctx context.Context, item storagemodels.WriteItem) error {
	return s.Write(ctx, []storagemodels.WriteItem{item})
}

// writeTarget remembers what a transaction entry was guarding, so that a
// cancellation reason can be turned back into a typed error.
type writeTarget struct {
	schema    registry.TableSchema
	key       string
	condition storagemodels.Condition
	declared  int32
}

func (s *Store) translate(item storagemodels.WriteItem) (types.TransactWriteItem, writeTarget, error) {
	if err := item.Validate(); err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}
	if item.Put != nil {
		return s.translatePut(*item.Put)
	}
	return s.translateDelete(*item.Delete)
}

func (s *Store) translatePut(put storagemodels.Put) (types.TransactWriteItem, writeTarget, error) {
	name, schema, err := s.table(put.Table)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}
	key, err := storagemodels.KeyOf(schema, put.Item)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}
	target := writeTarget{schema: schema, key: keyString(schema, key), condition: put.Condition}

	cond, err := putCondition(schema, put, &target)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}

	p := &types.Put{
		TableName:                           aws.String(name),
		Item:                                put.Item,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
	cond.apply(&p.ConditionExpression, &p.ExpressionAttributeNames, &p.ExpressionAttributeValues)
	return types.TransactWriteItem{Put: p}, target, nil
}

func (s *Store) translateDelete(del storagemodels.Delete) (types.TransactWriteItem, writeTarget, error) {
	name, schema, err := s.table(del.Table)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}
	key, err := storagemodels.KeyOf(schema, del.Key)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}
	target := writeTarget{schema: schema, key: keyString(schema, key), condition: del.Condition}

	cond, err := deleteCondition(del.Condition)
	if err != nil {
		return types.TransactWriteItem{}, writeTarget{}, err
	}

	d := &types.Delete{
		TableName:                           aws.String(name),
		Key:                                 key,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
	cond.apply(&d.ConditionExpression, &d.ExpressionAttributeNames, &d.ExpressionAttributeValues)
	return types.TransactWriteItem{Delete: d}, target, nil
}

func putCondition(schema registry.TableSchema, put storagemodels.Put, target *writeTarget) (expression, error) {
	switch put.Condition.Kind {
	case storagemodels.Unconditional:
		if !schema.Versioned {
			return expression{}, nil
		}
		declared, err := storagemodels.Version(put.Item)
		if err != nil {
			return expression{}, err
		}
		if declared == 1 {
			return expression{}, nil
		}
		// only an overwrite may carry a version other than 1
		target.declared = declared
		return attributeExists(schema.Key.PartitionKey), nil
	case storagemodels.MustNotExist:
		if err := storagemodels.CheckInitialVersion(schema, target.key, put.Item); err != nil {
			return expression{}, err
		}
		return attributeNotExists(schema.Key.PartitionKey), nil
	case storagemodels.ExpectNextVersion:
		declared, err := storagemodels.Version(put.Item)
		if err != nil {
			return expression{}, err
		}
		target.declared = declared
		return versionEquals(declared - 1), nil
	default:
		return expression{}, errors.NewUnsupportedOperationError(fmt.Sprintf("put with condition %s", put.Condition.Kind))
	}
}

func deleteCondition(cond storagemodels.Condition) (expression, error) {
	switch cond.Kind {
	case storagemodels.Unconditional:
		return expression{}, nil
	case storagemodels.ExpectVersion:
		return versionEquals(cond.Version), nil
	default:
		return expression{}, errors.NewUnsupportedOperationError(fmt.Sprintf("delete with condition %s", cond.Kind))
	}
}

// mapWriteError converts a cancelled transaction into the typed error of the
// first entry whose condition failed.
func (s *Store) mapWriteError(err error, targets []writeTarget) error {
	var cancelled *types.TransactionCanceledException
	if !stderrors.As(err, &cancelled) {
		return errors.NewBackendError("TransactWriteItems", err)
	}

	for i, reason := range cancelled.CancellationReasons {
		if i >= len(targets) || aws.ToString(reason.Code) != "ConditionalCheckFailed" {
			continue
		}
		target := targets[i]
		typed := conditionError(target, storagemodels.Record(reason.Item))
		s.logger.Warn("write rejected",
			"table", target.schema.Kind.String(),
			"key", target.key,
			"condition", target.condition.Kind.String(),
			"error", typed)
		if len(targets) > 1 {
			return fmt.Errorf("write item %d: %w", i, typed)
		}
		return typed
	}
	return errors.NewBackendError("TransactWriteItems", err)
}

func conditionError(target writeTarget, stored storagemodels.Record) error {
	table := target.schema.Kind.String()
	switch target.condition.Kind {
	case storagemodels.Unconditional:
		return errors.NewVersionMismatchError(table, target.key, 1, target.declared)
	case storagemodels.MustNotExist:
		return errors.NewAlreadyExistsError(table, target.key)
	case storagemodels.ExpectNextVersion, storagemodels.ExpectVersion:
		if len(stored) == 0 {
			return errors.NewNotFoundError(table, target.key)
		}
		expected := target.condition.Version
		if target.condition.Kind == storagemodels.ExpectNextVersion {
			expected = target.declared - 1
		}
		actual, err := storagemodels.Version(stored)
		if err != nil {
			return err
		}
		return errors.NewVersionMismatchError(table, target.key, expected, actual)
	default:
		return errors.NewUnsupportedOperationError(fmt.Sprintf("condition %s failed", target.condition.Kind))
	}
}

func keyString(schema registry.TableSchema, key storagemodels.Record) string {
	out := ""
	for i, col := range schema.Key.Columns() {
		if i > 0 {
			out += "|"
		}
		if v, ok := key[col].(*types.AttributeValueMemberS); ok {
			out += v.Value
		}
	}
	return out
}
