// assets/embed.go
//
// Files compiled into the binary:
//   - theatre.yaml: the default venue catalog (used when CATALOG_FILE is unset).
//   - sql/*.sql:    ledger migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed theatre.yaml sql/*.sql
var FS embed.FS

// DefaultCatalog returns the raw YAML of the built-in venue.
func DefaultCatalog() ([]byte, error) {
	return FS.ReadFile("theatre.yaml")
}

// Migrations returns the migration directory rooted at "sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
