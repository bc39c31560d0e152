// Package migrations embeds the goose SQL migrations for the places and
// searches tables. The server applies them at startup; repo tests apply
// them in TestMain.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
