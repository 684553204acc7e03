// Package migrations embeds SQL migration files for the SQLite store.
// Files are named NNN_name.up.sql / NNN_name.down.sql and applied in order.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
