// Package migrations embeds the goose migrations for the Postgres trip store.
package migrations

import "embed"

// FS holds every *.sql migration. The server applies it with goose on
// startup when STORE_DRIVER=postgres.
//
//go:embed *.sql
var FS embed.FS
