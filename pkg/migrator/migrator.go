package migrator

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/itemservice/migrations"
	"github.com/ghuser/itemservice/pkg/database"
)

// Migrator applies the embedded goose migrations matching a Database's dialect.
type Migrator struct {
	provider *goose.Provider
}

// New builds a Migrator for db. The goose Provider API is used instead of the
// package-level goose functions so that several stores (tests included) can
// migrate independently in one process.
func New(db *database.Database) (*Migrator, error) {
	var dialect goose.Dialect
	switch db.Dialect() {
	case database.DialectPostgres:
		dialect = goose.DialectPostgres
	case database.DialectSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("migrator: unsupported dialect %q", db.Dialect())
	}

	files, err := migrations.FS(string(db.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("migrator: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB(), files)
	if err != nil {
		return nil, fmt.Errorf("migrator: new provider: %w", err)
	}
	return &Migrator{provider: provider}, nil
}

// Up applies every pending migration and returns the versions applied.
func (m *Migrator) Up(ctx context.Context) ([]int64, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrator: up: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// Down rolls back the most recently applied migration and returns its version.
func (m *Migrator) Down(ctx context.Context) (int64, error) {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrator: down: %w", err)
	}
	return result.Source.Version, nil
}

// Status describes one migration and whether it has been applied.
type Status struct {
	Version int64
	Path    string
	Applied bool
}

// Status lists every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	st, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrator: status: %w", err)
	}
	out := make([]Status, 0, len(st))
	for _, s := range st {
		out = append(out, Status{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version, 0 when none.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrator: version: %w", err)
	}
	return v, nil
}
