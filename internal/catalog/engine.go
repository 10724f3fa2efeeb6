// Package catalog lists database files, inspects their tables and loads
// table contents for the dashboard and the CLI.
package catalog

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Engine describes how to open and introspect one kind of database file.
type Engine struct {
	// Name is the engine name shown to users (e.g., "sqlite", "duckdb").
	Name string

	// Driver is the database/sql driver name.
	Driver string

	// Extensions are the file extensions handled by this engine, with the dot.
	Extensions []string

	// CatalogQuery returns the user table names, one per row.
	CatalogQuery string

	// DSN builds a read-only data source name for a database file path.
	DSN func(path string) string

	// Connector, when set, is used instead of DSN to reach the file.
	Connector func(path string) (driver.Connector, error)
}

// Open returns a handle to the database file at path. No connection is
// made until the handle is used.
func (e *Engine) Open(path string) (*sqlx.DB, error) {
	if e.Connector == nil {
		return sqlx.Open(e.Driver, e.DSN(path))
	}
	c, err := e.Connector(path)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sql.OpenDB(c), e.Driver), nil
}

var (
	registryMu sync.RWMutex
	engines    = make(map[string]*Engine) // keyed by extension
)

// Register adds an engine for each of its extensions.
// Called by engine implementations in their init() functions.
func Register(e *Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, ext := range e.Extensions {
		engines[strings.ToLower(ext)] = e
	}
}

// EngineFor returns the engine registered for the extension of path.
func EngineFor(path string) (*Engine, error) {
	ext := strings.ToLower(filepath.Ext(path))

	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := engines[ext]
	if !ok {
		return nil, &UnknownEngineError{
			Extension: ext,
			Available: listExtensionsLocked(),
		}
	}
	return e, nil
}

// ListExtensions returns all registered extensions (sorted).
func ListExtensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listExtensionsLocked()
}

func listExtensionsLocked() []string {
	exts := make([]string, 0, len(engines))
	for ext := range engines {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// UnknownEngineError is returned when no engine handles a file extension.
type UnknownEngineError struct {
	Extension string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("no database engine for extension %q\nAvailable extensions: %v\nHint: Check extensions in tablescope.yaml", e.Extension, e.Available)
}

// QuoteIdentifier quotes a SQL identifier with double quotes, doubling any
// embedded quote characters.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes a SQL string literal with single quotes, doubling any
// embedded quote characters.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
