// Package migrations embeds the goose schema migrations for pgstore.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
