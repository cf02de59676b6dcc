/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// Query runs an equality query. With no Limit every page is fetched and the
// result is complete; with a Limit one page is returned along with the key to
// resume from.
func (s *Store) Query(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryOutput, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query params are required")
	}
	name, schema, err := s.table(params.Table)
	if err != nil {
		return nil, err
	}
	if err := params.Validate(schema); err != nil {
		return nil, err
	}

	input := &sdk.QueryInput{TableName: aws.String(name)}
	if params.IndexName != "" {
		input.IndexName = aws.String(params.IndexName)
	}
	equals("k", params.Key).apply(&input.KeyConditionExpression, &input.ExpressionAttributeNames, &input.ExpressionAttributeValues)
	if params.Filter != nil {
		equals("f", *params.Filter).apply(&input.FilterExpression, &input.ExpressionAttributeNames, &input.ExpressionAttributeValues)
	}
	if params.Limit > 0 {
		input.Limit = aws.Int32(params.Limit)
	}
	if params.ExclusiveStartKey != nil {
		input.ExclusiveStartKey = params.ExclusiveStartKey
	}

	result := &storagemodels.QueryOutput{Items: []storagemodels.Record{}}
	pages := 0
	for {
		out, err := withRetry(ctx, s.retry, func() (*sdk.QueryOutput, error) {
			return s.client.Query(ctx, input)
		})
		if err != nil {
			return nil, errors.NewBackendError("Query", err)
		}
		pages++

		for _, item := range out.Items {
			result.Items = append(result.Items, storagemodels.Record(item))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		if params.Limit > 0 {
			result.LastEvaluatedKey = storagemodels.Record(out.LastEvaluatedKey)
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	result.Count = len(result.Items)
	s.logger.Debug("query",
		"table", schema.Kind.String(),
		"index", params.IndexName,
		"items", result.Count,
		"pages", pages)
	return result, nil
}

