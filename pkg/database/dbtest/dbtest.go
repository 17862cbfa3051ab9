// Package dbtest provides store fixtures for tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/logger"
	"github.com/ghuser/itemservice/pkg/migrator"
)

// NewTestDB opens a fresh in-memory SQLite store with every migration
// applied. The store is closed when the test finishes.
func NewTestDB(t testing.TB) *database.Database {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewPool(ctx, ":memory:", logger.Discard())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m, err := migrator.New(db)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if _, err := m.Up(ctx); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}

// NewPostgresDB opens the PostgreSQL store named by DATABASE_URL and applies
// every migration. The test is skipped when DATABASE_URL is unset or points
// at another dialect. Tables are shared with other runs, so tests must
// compare counts before and after rather than assume an empty store.
func NewPostgresDB(t testing.TB) *database.Database {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping PostgreSQL integration tests")
	}
	ctx := context.Background()

	db, err := database.NewPool(ctx, url, logger.Discard())
	if err != nil {
		t.Fatalf("opening postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if db.Dialect() != database.DialectPostgres {
		t.Skipf("DATABASE_URL is %s, not postgres; skipping", db.Dialect())
	}

	m, err := migrator.New(db)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if _, err := m.Up(ctx); err != nil {
		t.Fatalf("migrating postgres: %v", err)
	}
	return db
}
