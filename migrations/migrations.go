// Package migrations embeds the SQL schema of the cart slot storage,
// one directory per database driver.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
