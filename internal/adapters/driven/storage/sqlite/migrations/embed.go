// Package migrations holds the embedding cache schema, applied in file-name order.
package migrations

import "embed"

// FS contains the NNN_name.up.sql and .down.sql pairs.
//
//go:embed *.sql
var FS embed.FS
