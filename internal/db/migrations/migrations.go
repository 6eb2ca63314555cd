// Package migrations embeds the goose migrations shared by the Postgres and
// SQLite effect stores.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
