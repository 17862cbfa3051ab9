// Package db is the item table's query layer. Queries are written once
// with '?' placeholders and rebound for the store's dialect.
package db

import (
	"context"
	"database/sql"

	"github.com/ghuser/itemservice/pkg/database"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New returns Queries running on db in the given dialect.
func New(db DBTX, dialect database.Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

type Queries struct {
	db      DBTX
	dialect database.Dialect
}

func (q *Queries) rebind(query string) string {
	return database.Rebind(q.dialect, query)
}
