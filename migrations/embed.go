package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var Files embed.FS

// GetFS returns the embedded schema files. They apply unchanged to
// SQLite and Postgres; internal/store tracks which have run.
func GetFS() fs.FS {
	return Files
}
