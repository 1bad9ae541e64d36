// Package sales embeds the goose migrations for the sales schema.
package sales

import "embed"

//go:embed *.sql
var FS embed.FS
