// Package migrations holds the SQL schema applied by `medcab-server migrate up`.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
