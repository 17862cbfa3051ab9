package repositories

import (
	"context"

	"github.com/ghuser/itemservice/services/item/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// Create inserts a new row and returns it as stored, with id and
	// created_at assigned by the store.
	Create(ctx context.Context, in models.CreateInput) (*models.Item, error)

	// GetByID returns *domain.NotFoundError when no row has the id.
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// List retrieves a page of items, newest first with ties broken by
	// descending id. Returns the items slice and the total count (ignoring
	// pagination).
	List(ctx context.Context, opts QueryOpts) ([]*models.Item, int, error)

	// Update applies in to the row atomically and returns the row as
	// stored afterwards. An empty in returns the current row unchanged.
	Update(ctx context.Context, id int64, in models.UpdateInput) (*models.Item, error)

	// Delete removes a row and returns the revision that retires it, one
	// past the last stored revision. It reports false, with no error, when
	// the row did not exist.
	Delete(ctx context.Context, id int64) (revision int64, deleted bool, err error)
}
