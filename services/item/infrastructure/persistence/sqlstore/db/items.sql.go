package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ghuser/itemservice/pkg/database"
)

// Item is one row of the items table.
type Item struct {
	ID          int64
	Name        string
	Description sql.NullString
	CreatedAt   time.Time
	Revision    int64
}

const itemColumns = `id, name, description, created_at, revision`

const insertItem = `INSERT INTO items (name, description) VALUES (?, ?) RETURNING id`

type InsertItemParams struct {
	Name        string
	Description sql.NullString
}

// InsertItem returns the store-assigned id.
func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, q.rebind(insertItem), arg.Name, arg.Description).Scan(&id)
	return id, err
}

const getItem = `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

func (q *Queries) GetItem(ctx context.Context, id int64) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, q.rebind(getItem), id))
}

// GetItemForUpdate reads a row and, on PostgreSQL, locks it until the
// surrounding transaction ends. SQLite serializes writers already.
func (q *Queries) GetItemForUpdate(ctx context.Context, id int64) (Item, error) {
	query := getItem
	if q.dialect == database.DialectPostgres {
		query += ` FOR UPDATE`
	}
	return scanItem(q.db.QueryRowContext(ctx, q.rebind(query), id))
}

const listItems = `SELECT ` + itemColumns + ` FROM items
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListItemsParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListItems(ctx context.Context, arg ListItemsParams) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listItems), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.Revision); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countItems = `SELECT COUNT(*) FROM items`

func (q *Queries) CountItems(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countItems).Scan(&n)
	return n, err
}

const updateItem = `UPDATE items SET name = ?, description = ?, revision = revision + 1 WHERE id = ?`

type UpdateItemParams struct {
	ID          int64
	Name        string
	Description sql.NullString
}

// UpdateItem returns the number of rows changed. Every call bumps the
// row's revision.
func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.rebind(updateItem), arg.Name, arg.Description, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteItem = `DELETE FROM items WHERE id = ? RETURNING revision`

// DeleteItem removes a row and returns the revision it had. found is false
// when no row had the id.
func (q *Queries) DeleteItem(ctx context.Context, id int64) (revision int64, found bool, err error) {
	err = q.db.QueryRowContext(ctx, q.rebind(deleteItem), id).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return revision, true, nil
}

func scanItem(row *sql.Row) (Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.Revision)
	return i, err
}
