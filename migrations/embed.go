// Package migrations embeds the goose SQL migrations for every supported
// store dialect. Each dialect directory holds the same numbered migrations.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// FS returns the migration files for dialect ("postgres" or "sqlite") rooted
// so that goose sees the .sql files at the top level.
func FS(dialect string) (fs.FS, error) {
	switch dialect {
	case "postgres", "sqlite":
		return fs.Sub(files, dialect)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
