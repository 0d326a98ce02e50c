// Package migrations embeds the service's PostgreSQL schema.
package migrations

import "embed"

// FS holds the golang-migrate up/down files under Dir.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir is the directory within FS that holds the migration files.
const Dir = "sql"
