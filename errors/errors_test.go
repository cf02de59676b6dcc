/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	missing := NewMissingFieldError("CityCode")
	if missing.Error() != `field "CityCode" not found` {
		t.Errorf("unexpected message %q", missing.Error())
	}
	if !errors.Is(missing, ErrMissingField) || errors.Is(missing, ErrTypeMismatch) {
		t.Error("missing field error should only match ErrMissingField")
	}

	mismatch := NewTypeMismatchError("Lat", "number")
	if mismatch.Error() != `field "Lat": expected number` {
		t.Errorf("unexpected message %q", mismatch.Error())
	}
	if !errors.Is(mismatch, ErrTypeMismatch) || errors.Is(mismatch, ErrMissingField) {
		t.Error("type mismatch error should only match ErrTypeMismatch")
	}
	if !IsDecodeError(mismatch) {
		t.Error("IsDecodeError should return true for a type mismatch")
	}
}

func TestItemErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		expected string
	}{
		{
			name:     "already exists",
			err:      NewAlreadyExistsError("Requirements", "abc"),
			sentinel: ErrItemAlreadyExists,
			expected: `Requirements item with key "abc" already exists`,
		},
		{
			name:     "not found",
			err:      NewNotFoundError("Requirements", "abc"),
			sentinel: ErrItemNotFound,
			expected: `Requirements item with key "abc" not found`,
		},
		{
			name:     "version mismatch",
			err:      NewVersionMismatchError("Requirements", "abc", 3, 1),
			sentinel: ErrVersionMismatch,
			expected: `Requirements item with key "abc": expected version 3, stored version 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v should match %v", tt.err, tt.sentinel)
			}
			if !IsConditionFailed(tt.err) {
				t.Error("IsConditionFailed should return true")
			}
		})
	}
}

func TestRequirementNotFound(t *testing.T) {
	err := NewRequirementNotFoundError("f3b1")
	if !errors.Is(err, ErrRequirementNotFound) {
		t.Error("RequirementNotFoundError should match ErrRequirementNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for a missing requirement")
	}
	if IsConditionFailed(err) {
		t.Error("a missing requirement is not a condition failure")
	}
}

func TestBackendErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBackendError("Query", cause)

	if !errors.Is(err, ErrBackendUnavailable) {
		t.Error("BackendError should match ErrBackendUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("BackendError should unwrap to its cause")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewUnsupportedOperationError("ConditionCheck")
	wrapped := fmt.Errorf("write failed: %w", original)

	if !errors.Is(wrapped, ErrUnsupportedOperation) {
		t.Error("Wrapped UnsupportedOperationError should still match ErrUnsupportedOperation")
	}

	validation := fmt.Errorf("request: %w", NewValidationError("tolerated_duration", "must be positive"))
	if !IsValidationError(validation) {
		t.Error("IsValidationError should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrMissingField,
		ErrTypeMismatch,
		ErrInvalidCursor,
		ErrItemAlreadyExists,
		ErrItemNotFound,
		ErrVersionMismatch,
		ErrUnsupportedOperation,
		ErrRequirementNotFound,
		ErrBackendUnavailable,
		ErrInvalidInput,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
