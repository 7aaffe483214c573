// Package migrations embeds the goose migrations of every service. Each
// service owns one directory and its own database.
package migrations

import "embed"

const (
	Users     = "users"
	Tasks     = "tasks"
	Deadlines = "deadlines"
)

//go:embed users/*.sql tasks/*.sql deadlines/*.sql
var FS embed.FS
