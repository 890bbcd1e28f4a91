// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrPlanNotFound indicates a business plan was not found by the given identifier.
	ErrPlanNotFound = errors.New("business plan not found")

	// ErrActionItemNotFound indicates an action item was not found by the given identifier.
	ErrActionItemNotFound = errors.New("action item not found")

	// ErrActionListNotFound indicates an action list was not found by the given identifier.
	ErrActionListNotFound = errors.New("action list not found")

	// ErrUserNotFound indicates a user record was not found by the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidSortField indicates a listing used a sort field outside the allowlist.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// PlanError wraps plan-related errors with operation context.
type PlanError struct {
	Op     string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	PlanID string
	Err    error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s operation failed for plan %s: %v", e.Op, e.PlanID, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

func (e *PlanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPlanError creates a new plan error with context.
func NewPlanError(op, planID string, err error) *PlanError {
	return &PlanError{Op: op, PlanID: planID, Err: err}
}

// ItemError wraps action-item errors with operation context.
type ItemError struct {
	Op     string
	ItemID string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s operation failed for action item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func (e *ItemError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsPlanNotFound checks if an error indicates a business plan was not found.
func IsPlanNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}

// IsActionItemNotFound checks if an error indicates an action item was not found.
func IsActionItemNotFound(err error) bool {
	return errors.Is(err, ErrActionItemNotFound)
}

// IsActionListNotFound checks if an error indicates an action list was not found.
func IsActionListNotFound(err error) bool {
	return errors.Is(err, ErrActionListNotFound)
}

// IsUserNotFound checks if an error indicates a user was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsInvalidSortField checks if an error indicates an invalid sort field.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}
