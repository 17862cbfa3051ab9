// Command migrate manages the item store schema.
//
//	migrate up        apply every pending migration
//	migrate down      roll back the latest migration
//	migrate status    list migrations and whether they are applied
//	migrate version   print the current schema version
//
// The store comes from DATABASE_URL (or .env) unless --database-url is given.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
