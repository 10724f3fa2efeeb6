package catalog

import (
	"context"
	"database/sql/driver"

	"github.com/marcboeker/go-duckdb"
)

// duckDBCatalog is the name the database file is attached under.
const duckDBCatalog = "attached"

// DuckDBCatalogQuery lists base tables of the attached database.
const DuckDBCatalogQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_type = 'BASE TABLE'
	AND table_catalog = current_database()
	AND table_schema = current_schema()
`

func init() {
	Register(&Engine{
		Name:         "duckdb",
		Driver:       "duckdb",
		Extensions:   []string{".duckdb"},
		CatalogQuery: DuckDBCatalogQuery,
		Connector:    duckDBConnector,
	})
}

// duckDBConnector opens an in-memory database and attaches path read-only.
// The duckdb DSN takes the file name verbatim up to the first '?', so the
// file is named in an ATTACH statement instead.
func duckDBConnector(path string) (driver.Connector, error) {
	return duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		for _, stmt := range duckDBAttach(path) {
			if _, err := execer.ExecContext(context.Background(), stmt, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// duckDBAttach returns the statements run on every new connection.
func duckDBAttach(path string) []string {
	return []string{
		"ATTACH IF NOT EXISTS " + QuoteLiteral(path) + " AS " + duckDBCatalog + " (READ_ONLY)",
		"USE " + duckDBCatalog,
	}
}
