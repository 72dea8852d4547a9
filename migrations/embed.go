// Package migrations embeds the PostgreSQL schema of the dashboard.
package migrations

import "embed"

// FS holds the numbered up and down migrations.
//
//go:embed *.sql
var FS embed.FS
