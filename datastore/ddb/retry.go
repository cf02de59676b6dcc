/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// RetryOptions controls how throttled or transiently failing queries are retried.
type RetryOptions struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryOptions returns three retries with a linear 100ms backoff.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: 3,
		Backoff:    100 * time.Millisecond,
	}
}

var retryableCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"ThrottlingException":                    true,
	"InternalServerError":                    true,
	"ServiceUnavailable":                     true,
}

// isRetryableError reports whether err is worth another attempt.
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if stderrors.As(err, &throughput) || stderrors.As(err, &limit) || stderrors.As(err, &internal) {
		return true
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		if retryableCodes[apiErr.ErrorCode()] {
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}

	var retryable interface{ IsRetryable() bool }
	if stderrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// withRetry runs call until it succeeds, fails permanently, or the retries
// are spent. The wait grows linearly with the attempt number.
func withRetry[T any](ctx context.Context, opts RetryOptions, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt < opts.MaxRetries {
			backoff := time.Duration(attempt+1) * opts.Backoff
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", opts.MaxRetries, lastErr)
}
