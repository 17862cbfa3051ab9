package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidPagination indicates a negative skip or limit.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrStoreUnavailable indicates the store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NotFoundError reports a missing item by id. It matches ErrItemNotFound.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Item with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// NewNotFound returns a NotFoundError for id.
func NewNotFound(id int64) error {
	return &NotFoundError{ID: id}
}

// FieldError is a domain rule violated by one input field. Err is the
// sentinel it unwraps to, so callers can still match on errors.Is.
type FieldError struct {
	Field      string
	Constraint string
	Param      string
	Message    string
	Err        error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
