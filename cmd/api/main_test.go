package main

import (
	"testing"

	"github.com/ghuser/itemservice/pkg/app"
	"github.com/ghuser/itemservice/pkg/database/dbtest"
)

func TestReadinessChecks_UnconfiguredDependenciesAreNil(t *testing.T) {
	checks := readinessChecks(&app.Application{Db: dbtest.NewTestDB(t)})

	if checks["database"] == nil {
		t.Fatal("database check must always be present")
	}
	// A typed nil pointer stored in the interface would be pinged and panic.
	for _, name := range []string{"redis", "events"} {
		c, ok := checks[name]
		if !ok {
			t.Errorf("%s: missing from checks", name)
		}
		if c != nil {
			t.Errorf("%s: expected nil checker, got %T", name, c)
		}
	}
}
