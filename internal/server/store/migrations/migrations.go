// Package migrations embeds the goose migrations for the system of record.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
