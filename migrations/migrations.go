// Package migrations embeds the SurrealQL schema files applied at startup.
package migrations

import "embed"

// FS holds every *.surql migration, applied in file name order.
//
//go:embed *.surql
var FS embed.FS
