// Package store provides standardized error types for document operations.
package store

import (
	"errors"
	"fmt"
)

// Standard store error types that all implementations should use.
var (
	// ErrNotFound indicates a document was not found by the given identifier.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateValue indicates an insert or patch would violate a unique
	// field constraint (for example, a taken company slug).
	ErrDuplicateValue = errors.New("duplicate value for unique field")

	// ErrUnindexedField indicates a query filtered on a field that has no index.
	ErrUnindexedField = errors.New("field is not indexed for querying")

	// ErrUnknownCollection indicates an operation named a collection the
	// store does not manage.
	ErrUnknownCollection = errors.New("unknown collection")
)

// DocumentError wraps document-related errors with operation context.
type DocumentError struct {
	Op         string // Operation being performed (e.g., "Get", "Patch", "Delete")
	Collection string
	ID         string
	Err        error
}

func (e *DocumentError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDocumentError creates a new document error with context.
func NewDocumentError(op, collection, id string, err error) *DocumentError {
	return &DocumentError{
		Op:         op,
		Collection: collection,
		ID:         id,
		Err:        err,
	}
}

// IsNotFound checks if an error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateValue checks if an error indicates a unique constraint violation.
func IsDuplicateValue(err error) bool {
	return errors.Is(err, ErrDuplicateValue)
}

// IsUnindexedField checks if an error indicates a filter on an unindexed field.
func IsUnindexedField(err error) bool {
	return errors.Is(err, ErrUnindexedField)
}
