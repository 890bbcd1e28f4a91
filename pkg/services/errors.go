// Package services provides the business logic layer between HTTP
// handlers and persistence.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidSortOrder  = errors.New("invalid sort order")
	ErrInvalidStatus     = errors.New("invalid plan status")
	ErrEmptyOwnerID      = errors.New("owner ID cannot be empty")
	ErrTitleRequired     = errors.New("plan title is required")
	ErrContentRequired   = errors.New("action item content is required")
	ErrListNameRequired  = errors.New("list name is required")
	ErrUnknownSectionKey = errors.New("unknown section key")
	ErrSchemaViolation   = errors.New("section payload does not match its schema")

	// Business logic conflicts (409 Conflict).
	ErrUserNotPlaceholder = errors.New("user is not a placeholder account")
	ErrMigratedElsewhere  = errors.New("user was already migrated to a different account")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
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

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrEmptyOwnerID) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrContentRequired) ||
		errors.Is(err, ErrListNameRequired) ||
		errors.Is(err, ErrUnknownSectionKey) ||
		errors.Is(err, ErrSchemaViolation)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrUserNotPlaceholder) ||
		errors.Is(err, ErrMigratedElsewhere)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
