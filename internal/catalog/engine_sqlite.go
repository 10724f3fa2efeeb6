package catalog

import (
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteCatalogQuery lists user tables in natural catalog order.
const SQLiteCatalogQuery = `SELECT name FROM sqlite_master WHERE type = 'table'`

func init() {
	Register(&Engine{
		Name:         "sqlite",
		Driver:       "sqlite",
		Extensions:   []string{".db", ".sqlite", ".sqlite3"},
		CatalogQuery: SQLiteCatalogQuery,
		DSN:          sqliteDSN,
	})
}

// sqliteDSN returns a read-only URI for path. The path is percent-encoded
// so '?' and '#' in a file name stay part of the name; mode=ro keeps sqlite
// from creating or writing the file.
func sqliteDSN(path string) string {
	// A relative path would be read as the URI authority.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}
