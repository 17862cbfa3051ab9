// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"

	itemdomain "github.com/ghuser/itemservice/services/item/domain"
	"github.com/ghuser/itemservice/services/item/domain/models"
)

// ValidatePagination enforces skip >= 0 and limit >= 0. There is no upper
// bound on limit. Violations are *FieldError values wrapping
// ErrInvalidPagination, one per offending parameter.
func ValidatePagination(skip, limit int) error {
	var errs []error
	if skip < 0 {
		errs = append(errs, negativeParam("skip"))
	}
	if limit < 0 {
		errs = append(errs, negativeParam("limit"))
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%w; %w", errs[0], errs[1])
	}
}

func negativeParam(field string) error {
	return &itemdomain.FieldError{
		Field:      field,
		Constraint: "gte",
		Param:      "0",
		Message:    "Must be greater than or equal to 0",
		Err:        itemdomain.ErrInvalidPagination,
	}
}

// ValidateStoredItem checks the invariants every persisted Item satisfies:
// a positive store-assigned id, a valid name, a creation time and a revision
// of at least 1. It guards copies of items that come back from outside the
// store, such as the cache.
func ValidateStoredItem(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", item.ID)
	}
	if _, err := models.NewItemName(item.Name.String()); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if item.CreatedAt.IsZero() {
		return fmt.Errorf("created_at must be set")
	}
	if item.Revision < 1 {
		return fmt.Errorf("revision must be at least 1, got %d", item.Revision)
	}
	return nil
}
