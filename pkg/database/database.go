// Package database owns the process-wide store connection pool. It is opened
// once at startup, passed down explicitly, and closed at shutdown. Every
// request borrows connections from it through database/sql, either per
// statement or for the span of a WithTx call.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/ghuser/itemservice/pkg/logger"
)

// Dialect identifies the SQL flavour behind a Database.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Database wraps *sql.DB with the dialect it was opened for.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

// ParseURL splits a store URL into its dialect and the DSN handed to the driver.
//
//	postgres://... | postgresql://...  → pgx
//	sqlite://path | file:... | :memory: → modernc sqlite
func ParseURL(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return DialectSQLite, url, nil
	default:
		return "", "", fmt.Errorf("database: unsupported url scheme in %q", redact(url))
	}
}

// NewPool opens the store named by url, applies pool settings and verifies
// connectivity with a ping bounded by a 5s deadline.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	dialect, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	driver := "pgx"
	if dialect == DialectSQLite {
		driver = "sqlite"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	switch dialect {
	case DialectPostgres:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetConnMaxIdleTime(5 * time.Minute)
	case DialectSQLite:
		// One connection: writes are serialized and an in-memory database
		// stays the same database for the life of the pool.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		if err := sqlitePragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	log.Debug("database pool opened", "dialect", dialect)
	return &Database{db: db, dialect: dialect}, nil
}

func sqlitePragmas(ctx context.Context, db *sql.DB) error {
	for _, p := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("database: setting %q: %w", p, err)
		}
	}
	return nil
}

// DB returns the underlying pool for reads that need no transaction.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect reports which SQL flavour the pool speaks.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic; the connection goes back to
// the pool in every case.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}

// Rebind rewrites '?' placeholders into the dialect's native form, so
// queries are written once for every store.
func (d *Database) Rebind(query string) string {
	return Rebind(d.dialect, query)
}

// Rebind rewrites '?' placeholders to $1..$n for postgres and leaves sqlite
// queries untouched. Placeholders inside quoted literals are not expected.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Ping checks store connectivity.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// redact hides credentials in a url before it reaches an error message.
func redact(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
