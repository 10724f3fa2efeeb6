package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/jmoiron/sqlx"
)

// Inspector reads table names and table contents from database files.
// Every call opens its own connection and closes it before returning.
type Inspector struct {
	logger *slog.Logger
	open   func(ctx context.Context, e *Engine, path string) (*sqlx.DB, error)
}

// NewInspector creates an Inspector. A nil logger discards log output.
func NewInspector(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		logger: logger,
		open:   openReadOnly,
	}
}

// openReadOnly opens a single-connection handle to the database file.
func openReadOnly(ctx context.Context, e *Engine, path string) (*sqlx.DB, error) {
	db, err := e.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", e.Name, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", e.Name, err)
	}
	return db, nil
}

// connect resolves the engine for path and opens a connection to it.
func (i *Inspector) connect(ctx context.Context, path string) (*sqlx.DB, *Engine, error) {
	e, err := EngineFor(path)
	if err != nil {
		return nil, nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := i.open(ctx, e, path)
	if err != nil {
		return nil, nil, err
	}
	return db, e, nil
}

// ListTables returns the user tables of the database at path in the
// engine's catalog order.
func (i *Inspector) ListTables(ctx context.Context, path string) ([]string, error) {
	db, e, err := i.connect(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tables, err := listTables(ctx, db, e)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("listed tables", "database", path, "engine", e.Name, "count", len(tables))
	return tables, nil
}

// LoadTable reads every row of table. The table name must appear in the
// database catalog; it is quoted before being placed in the query.
func (i *Inspector) LoadTable(ctx context.Context, path, table string) (*ResultSet, error) {
	db, e, err := i.connect(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tables, err := listTables(ctx, db, e)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, table) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	rs, err := selectAll(ctx, db, table)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("loaded table", "database", path, "table", table, "rows", rs.Len(), "columns", len(rs.Columns))
	return rs, nil
}

func listTables(ctx context.Context, db *sqlx.DB, e *Engine) ([]string, error) {
	tables := []string{}
	if err := db.SelectContext(ctx, &tables, e.CatalogQuery); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func selectAll(ctx context.Context, db *sqlx.DB, table string) (*ResultSet, error) {
	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+QuoteIdentifier(table)) //nolint:gosec // table is checked against the catalog and quoted
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &ResultSet{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for j, v := range values {
			// Drivers may reuse byte buffers between rows.
			if b, ok := v.([]byte); ok {
				values[j] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rs, nil
}
