// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrCompanyNameRequired  = errors.New("company name is required")
	ErrWorkstreamNilCompany = errors.New("workstream must reference a company")
	ErrInvalidEntityKind    = errors.New("invalid sub-entity kind")
	ErrFlowNameRequired     = errors.New("flow name is required")
	ErrGraphNil             = errors.New("graph cannot be nil")

	// Not found errors (404).
	ErrCompanyNotFound    = errors.New("company not found")
	ErrWorkstreamNotFound = errors.New("workstream not found")
	ErrEntityNotFound     = errors.New("sub-entity not found")
	ErrFlowNotFound       = errors.New("flow not found")
	ErrAssetNotFound      = errors.New("knowledge base asset not found")

	// Conflicts (409).
	ErrSlugTaken = errors.New("company slug is already taken")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrCompanyNameRequired) ||
		errors.Is(err, ErrWorkstreamNilCompany) ||
		errors.Is(err, ErrInvalidEntityKind) ||
		errors.Is(err, ErrFlowNameRequired) ||
		errors.Is(err, ErrGraphNil)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrWorkstreamNotFound) ||
		errors.Is(err, ErrEntityNotFound) ||
		errors.Is(err, ErrFlowNotFound) ||
		errors.Is(err, ErrAssetNotFound)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSlugTaken)
}
