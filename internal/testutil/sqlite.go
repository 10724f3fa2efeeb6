package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	// sqlite driver for fixture databases.
	_ "modernc.org/sqlite"
)

// Row counts of the sales fixture.
const (
	OrdersRowCount    = 23
	CustomersRowCount = 3
)

// OrdersColumns are the columns of the orders table in the sales fixture.
var OrdersColumns = []string{"id", "customer_id", "amount", "status"}

// CreateSQLiteDB creates a SQLite database at path and runs statements in order.
func CreateSQLiteDB(t testing.TB, path string, statements ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// sql.Open is lazy; connect so the file exists even without statements.
	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, "statement: %s", stmt)
	}
}

// SetupSalesDir creates a data directory containing sales.db and notes.txt.
// sales.db has the tables orders (23 rows, 4 columns) and customers,
// created in that order.
func SetupSalesDir(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	CreateSQLiteDB(t, filepath.Join(dir, "sales.db"), SalesStatements()...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a database\n"), 0600))

	return dir
}

// SalesStatements returns the DDL and inserts of the sales fixture.
func SalesStatements() []string {
	stmts := []string{
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER,
			amount REAL,
			status TEXT
		)`,
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`INSERT INTO customers (id, name) VALUES (1, 'Alice'), (2, 'Bob'), (3, 'Carol, Inc.')`,
	}

	values := make([]string, 0, OrdersRowCount)
	statuses := []string{"open", "shipped", "cancelled"}
	for i := 1; i <= OrdersRowCount; i++ {
		values = append(values, fmt.Sprintf("(%d, %d, %d.5, '%s')", i, i%CustomersRowCount+1, i*10, statuses[i%len(statuses)]))
	}
	stmts = append(stmts, "INSERT INTO orders (id, customer_id, amount, status) VALUES "+strings.Join(values, ", "))

	return stmts
}
