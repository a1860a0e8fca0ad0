// Package migrations embeds the goose migrations of the static tables.
// Outing partitions are not migrated; they are created on demand.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
