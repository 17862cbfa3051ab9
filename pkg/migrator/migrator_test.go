package migrator

import (
	"context"
	"testing"

	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/logger"
)

func openMemory(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewPool(context.Background(), ":memory:", logger.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrator_UpStatusDown(t *testing.T) {
	ctx := context.Background()
	m, err := New(openMemory(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	applied, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(applied) != 2 || applied[0] != 1 || applied[1] != 2 {
		t.Fatalf("expected migrations 1 and 2 applied, got %v", applied)
	}

	v, err := m.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected version 2, got %d", v)
	}

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st) != 2 || !st[0].Applied || !st[1].Applied {
		t.Fatalf("expected two applied migrations, got %+v", st)
	}

	again, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no pending migrations, got %v", again)
	}

	down, err := m.Down(ctx)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if down != 2 {
		t.Fatalf("expected to roll back version 2, got %d", down)
	}
	if v, _ := m.Version(ctx); v != 1 {
		t.Fatalf("expected version 1 after Down, got %d", v)
	}
}
