// Package sqlstore implements the item repository on database/sql, for
// PostgreSQL in production and SQLite in tests and local runs.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/events"
	"github.com/ghuser/itemservice/pkg/telemetry"
	itemdomain "github.com/ghuser/itemservice/services/item/domain"
	domainevents "github.com/ghuser/itemservice/services/item/domain/events"
	"github.com/ghuser/itemservice/services/item/domain/models"
	"github.com/ghuser/itemservice/services/item/domain/repositories"
	"github.com/ghuser/itemservice/services/item/infrastructure/persistence/sqlstore/db"
)

var tracer = otel.Tracer("github.com/ghuser/itemservice/sqlstore")

// ItemRepository implements repositories.ItemRepository.
type ItemRepository struct {
	db      *database.Database
	bus     *events.EventBus
	metrics *telemetry.StoreMetrics
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns an ItemRepository backed by the given pool.
// When bus is non-nil every write publishes its lifecycle event in the same
// transaction. metrics may be nil.
func NewItemRepository(database *database.Database, bus *events.EventBus, metrics *telemetry.StoreMetrics) *ItemRepository {
	return &ItemRepository{db: database, bus: bus, metrics: metrics}
}

// Create inserts a row, reads it back inside the same transaction so the
// caller sees the store-assigned id and created_at, and publishes
// ItemCreatedEvent.
func (r *ItemRepository) Create(ctx context.Context, in models.CreateInput) (*models.Item, error) {
	ctx, done := r.observe(ctx, "create")
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx, r.db.Dialect())
		id, err := q.InsertItem(ctx, db.InsertItemParams{
			Name:        in.Name.String(),
			Description: nullString(in.Description),
		})
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		row, err := q.GetItem(ctx, id)
		if err != nil {
			return fmt.Errorf("read back item %d: %w", id, err)
		}
		item = rowToItem(row)

		return r.publish(ctx, tx, domainevents.TopicItemCreated, func(eventID uuid.UUID) any {
			return domainevents.ItemCreatedEvent{
				EventID:    eventID,
				Version:    domainevents.EventVersion,
				Item:       snapshot(item),
				OccurredAt: item.CreatedAt,
			}
		})
	})
	err = classify(err)
	done(err)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID retrieves an Item by ID. Returns *domain.NotFoundError if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	ctx, done := r.observe(ctx, "get")
	row, err := db.New(r.db.DB(), r.db.Dialect()).GetItem(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = itemdomain.NewNotFound(id)
	case err != nil:
		err = classify(fmt.Errorf("query item: %w", err))
	}
	done(err)
	if err != nil {
		return nil, err
	}
	return rowToItem(row), nil
}

// List retrieves a page of items ordered by created_at DESC, id DESC and
// the total row count.
func (r *ItemRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	ctx, done := r.observe(ctx, "list")
	items, total, err := r.list(ctx, opts)
	err = classify(err)
	done(err)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ItemRepository) list(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	q := db.New(r.db.DB(), r.db.Dialect())

	rows, err := q.ListItems(ctx, db.ListItemsParams{
		Limit:  int64(opts.Limit),
		Offset: int64(opts.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}

	total, err := q.CountItems(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, int(total), nil
}

// Update locks the row, merges the Set fields of in, writes, reads back and
// publishes ItemUpdatedEvent, all in one transaction. The write bumps the
// revision. An empty in returns the current row without writing or
// publishing.
func (r *ItemRepository) Update(ctx context.Context, id int64, in models.UpdateInput) (*models.Item, error) {
	ctx, done := r.observe(ctx, "update")
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx, r.db.Dialect())
		row, err := q.GetItemForUpdate(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return itemdomain.NewNotFound(id)
		}
		if err != nil {
			return fmt.Errorf("lock item %d: %w", id, err)
		}
		current := rowToItem(row)
		if in.IsEmpty() {
			item = current
			return nil
		}

		next := current.Apply(in)
		if _, err := q.UpdateItem(ctx, db.UpdateItemParams{
			ID:          id,
			Name:        next.Name.String(),
			Description: nullString(next.Description),
		}); err != nil {
			return fmt.Errorf("update item %d: %w", id, err)
		}
		row, err = q.GetItem(ctx, id)
		if err != nil {
			return fmt.Errorf("read back item %d: %w", id, err)
		}
		item = rowToItem(row)

		return r.publish(ctx, tx, domainevents.TopicItemUpdated, func(eventID uuid.UUID) any {
			return domainevents.ItemUpdatedEvent{
				EventID:    eventID,
				Version:    domainevents.EventVersion,
				Item:       snapshot(item),
				OccurredAt: time.Now().UTC(),
			}
		})
	})
	err = classify(err)
	done(err)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID and publishes ItemDeletedEvent in the same
// transaction. The returned revision is the row's last revision plus one.
// Reports false when no row had the id.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (int64, bool, error) {
	ctx, done := r.observe(ctx, "delete")
	var tombstone int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		last, found, err := db.New(tx, r.db.Dialect()).DeleteItem(ctx, id)
		if err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		if !found {
			return nil
		}
		tombstone = last + 1

		return r.publish(ctx, tx, domainevents.TopicItemDeleted, func(eventID uuid.UUID) any {
			return domainevents.ItemDeletedEvent{
				EventID:    eventID,
				Version:    domainevents.EventVersion,
				ItemID:     id,
				Revision:   tombstone,
				OccurredAt: time.Now().UTC(),
			}
		})
	})
	err = classify(err)
	done(err)
	if err != nil {
		return 0, false, err
	}
	return tombstone, tombstone > 0, nil
}

// publish stores an event through the transactional outbox. It is a no-op
// without a bus.
func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, topic string, build func(uuid.UUID) any) error {
	if r.bus == nil {
		return nil
	}
	eventID := uuid.New()
	msg, err := events.NewMessage(ctx, eventID.String(), domainevents.EventVersion, build(eventID))
	if err != nil {
		return fmt.Errorf("build %s event: %w", topic, err)
	}
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if err := p.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// observe starts a span for op and returns a func that ends it and records
// the outcome metric.
func (r *ItemRepository) observe(ctx context.Context, op string) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "ItemRepository."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", string(r.db.Dialect()))),
	)
	return ctx, func(err error) {
		outcome := "ok"
		switch {
		case err == nil:
		case errors.Is(err, itemdomain.ErrItemNotFound):
			outcome = "not_found"
		default:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		r.metrics.Record(ctx, op, outcome, started)
		span.End()
	}
}

// classify tags connection-level failures with ErrStoreUnavailable so the
// API answers 503 instead of 500. Other errors pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, itemdomain.ErrItemNotFound) {
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) ||
		pgconn.Timeout(err) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", itemdomain.ErrStoreUnavailable, err)
	}
	return err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// rowToItem maps a db.Item to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	item := &models.Item{
		ID:        row.ID,
		Name:      models.ItemName(row.Name),
		CreatedAt: row.CreatedAt.UTC(),
		Revision:  row.Revision,
	}
	if row.Description.Valid {
		d := row.Description.String
		item.Description = &d
	}
	return item
}

func snapshot(item *models.Item) domainevents.ItemSnapshot {
	return domainevents.ItemSnapshot{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		Revision:    item.Revision,
	}
}
