// Package migrations holds the SQL schema applied at startup.
package migrations

import "embed"

// FS contains every *.up.sql file, applied in name order.
//
//go:embed *.up.sql
var FS embed.FS
