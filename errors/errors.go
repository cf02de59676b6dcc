/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrMissingField is returned when a required attribute is absent from a record
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch is returned when an attribute has the wrong tag or cannot be parsed
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrItemAlreadyExists is returned when a create-only write finds an existing item
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrItemNotFound is returned when a conditional update or delete targets a missing item
	ErrItemNotFound = errors.New("item not found")

	// ErrVersionMismatch is returned when an optimistic concurrency check fails
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrUnsupportedOperation is returned for write items or conditions the store cannot apply
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrRequirementNotFound is returned when an aggregation references an unknown requirement
	ErrRequirementNotFound = errors.New("requirement not found")

	// ErrBackendUnavailable is returned when the network-backed store cannot be reached
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError reports a problem decoding a single attribute of a record.
type FieldError struct {
	Field    string
	Expected string
	kind     error
}

func (e *FieldError) Error() string {
	if e.kind == ErrMissingField {
		return fmt.Sprintf("field %q not found", e.Field)
	}
	return fmt.Sprintf("field %q: expected %s", e.Field, e.Expected)
}

func (e *FieldError) Is(target error) bool {
	return target == e.kind
}

// ItemError represents a conditional write rejected because of the presence or
// absence of the addressed item.
type ItemError struct {
	Table string
	Key   string
	kind  error
}

func (e *ItemError) Error() string {
	if e.kind == ErrItemAlreadyExists {
		return fmt.Sprintf("%s item with key %q already exists", e.Table, e.Key)
	}
	return fmt.Sprintf("%s item with key %q not found", e.Table, e.Key)
}

func (e *ItemError) Is(target error) bool {
	return target == e.kind
}

// VersionMismatchError represents a failed optimistic concurrency check
type VersionMismatchError struct {
	Table    string
	Key      string
	Expected int32
	Actual   int32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s item with key %q: expected version %d, stored version %d", e.Table, e.Key, e.Expected, e.Actual)
}

func (e *VersionMismatchError) Is(target error) bool {
	return target == ErrVersionMismatch
}

// UnsupportedOperationError represents a write item or condition the store does not handle
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Operation)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// RequirementNotFoundError represents a missing requirement during aggregation
type RequirementNotFoundError struct {
	RequirementID string
}

func (e *RequirementNotFoundError) Error() string {
	return fmt.Sprintf("requirement %q not found", e.RequirementID)
}

func (e *RequirementNotFoundError) Is(target error) bool {
	return target == ErrRequirementNotFound
}

// BackendError wraps a failure of the network-backed store
type BackendError struct {
	Operation string
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend unavailable: %v", e.Operation, e.Err)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewMissingFieldError creates a FieldError matching ErrMissingField
func NewMissingFieldError(field string) error {
	return &FieldError{Field: field, kind: ErrMissingField}
}

// NewTypeMismatchError creates a FieldError matching ErrTypeMismatch
func NewTypeMismatchError(field, expected string) error {
	return &FieldError{Field: field, Expected: expected, kind: ErrTypeMismatch}
}

// NewAlreadyExistsError creates an ItemError matching ErrItemAlreadyExists
func NewAlreadyExistsError(table, key string) error {
	return &ItemError{Table: table, Key: key, kind: ErrItemAlreadyExists}
}

// NewNotFoundError creates an ItemError matching ErrItemNotFound
func NewNotFoundError(table, key string) error {
	return &ItemError{Table: table, Key: key, kind: ErrItemNotFound}
}

// NewVersionMismatchError creates a new VersionMismatchError
func NewVersionMismatchError(table, key string, expected, actual int32) error {
	return &VersionMismatchError{Table: table, Key: key, Expected: expected, Actual: actual}
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(operation string) error {
	return &UnsupportedOperationError{Operation: operation}
}

// NewRequirementNotFoundError creates a new RequirementNotFoundError
func NewRequirementNotFoundError(requirementID string) error {
	return &RequirementNotFoundError{RequirementID: requirementID}
}

// NewBackendError creates a new BackendError
func NewBackendError(operation string, err error) error {
	return &BackendError{Operation: operation, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error reports a missing item or requirement
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrRequirementNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrItemAlreadyExists)
}

// IsConditionFailed checks if an error is any rejected conditional write
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrItemAlreadyExists) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrVersionMismatch)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDecodeError checks if an error came from decoding a record or cursor
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInvalidCursor)
}
