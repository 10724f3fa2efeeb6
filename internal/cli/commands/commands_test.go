package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
	clitestutil "github.com/leapstack-labs/tablescope/internal/cli/testutil"
	"github.com/leapstack-labs/tablescope/internal/testutil"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() *cobra.Command
		wantUse string
	}{
		{"serve", func() *cobra.Command { return NewServeCommand() }, "serve"},
		{"databases", func() *cobra.Command { return NewDatabasesCommand() }, "databases"},
		{"tables", func() *cobra.Command { return NewTablesCommand() }, "tables"},
		{"show", func() *cobra.Command { return NewShowCommand() }, "show"},
		{"export", func() *cobra.Command { return NewExportCommand() }, "export"},
		{"config", func() *cobra.Command { return NewConfigCommand() }, "config"},
		{"version", func() *cobra.Command { return NewVersionCommand("1.0.0") }, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantUse, tt.cmd().Name())
		})
	}
}

func TestCommandFlags(t *testing.T) {
	serve := NewServeCommand()
	for _, name := range []string{"host", "port", "debug", "page-size"} {
		assert.NotNil(t, serve.Flags().Lookup(name), "serve flag %s", name)
	}
	assert.Equal(t, "8050", serve.Flags().Lookup("port").DefValue)

	show := NewShowCommand()
	require.NotNil(t, show.Flags().Lookup("page"))
	assert.Equal(t, "1", show.Flags().Lookup("page").DefValue)

	export := NewExportCommand()
	require.NotNil(t, export.Flags().ShorthandLookup("o"))

	assert.Contains(t, NewDatabasesCommand().Aliases, "dbs")
}

func TestDatabasesCommand(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	cfg.Format = string(output.ModeMarkdown)

	res, err := clitestutil.RunCommand(t, NewDatabasesCommand(), cfg)
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "| sales.db |")
	assert.NotContains(t, out, "notes.txt")
	clitestutil.AssertNoANSI(t, out)
}

func TestDatabasesCommand_JSON(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.Format = string(output.ModeJSON)

	res, err := clitestutil.RunCommand(t, NewDatabasesCommand(), cfg)
	require.NoError(t, err)

	var records []databaseRecord
	require.NoError(t, json.Unmarshal(res.Out.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "sales.db", records[0].Name)
	assert.Positive(t, records[0].Size)
}

func TestDatabasesCommand_Empty(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.DataDir = t.TempDir()

	res, err := clitestutil.RunCommand(t, NewDatabasesCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, res.Output(), "No database files in")

	cfg.Format = string(output.ModeJSON)
	res, err = clitestutil.RunCommand(t, NewDatabasesCommand(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(res.Output()))
}

func TestDatabasesCommand_MissingDir(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.DataDir = filepath.Join(t.TempDir(), "missing")

	_, err := clitestutil.RunCommand(t, NewDatabasesCommand(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list data directory")
}

func TestTablesCommand(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	// A buffer is not a terminal, so auto resolves to markdown.
	res, err := clitestutil.RunCommand(t, NewTablesCommand(), cfg, "sales.db")
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "| 1 | orders |")
	assert.Contains(t, out, "| 2 | customers |")
	assert.Less(t, strings.Index(out, "orders"), strings.Index(out, "customers"))
	clitestutil.AssertNoANSI(t, out)
}

func TestTablesCommand_JSON(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.Format = string(output.ModeJSON)

	res, err := clitestutil.RunCommand(t, NewTablesCommand(), cfg, "sales.db")
	require.NoError(t, err)

	var tables []string
	require.NoError(t, json.Unmarshal(res.Out.Bytes(), &tables))
	assert.Equal(t, []string{"orders", "customers"}, tables)
}

func TestTablesCommand_Text(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.Format = string(output.ModeText)

	res, err := clitestutil.RunCommand(t, NewTablesCommand(), cfg, "sales.db")
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "orders")
	clitestutil.AssertNoANSI(t, out)
}

func TestTablesCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		substr  string
	}{
		{"path traversal", []string{"../sales.db"}, catalog.ErrInvalidDatabase, ""},
		{"wrong extension", []string{"notes.txt"}, catalog.ErrInvalidDatabase, ""},
		{"missing database", []string{"missing.db"}, catalog.ErrDatabaseNotFound, ""},
		{"no args", nil, nil, "accepts 1 arg"},
		{"extra args", []string{"sales.db", "orders"}, nil, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := clitestutil.SalesConfig(t)

			_, err := clitestutil.RunCommand(t, NewTablesCommand(), cfg, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.substr != "" {
				assert.Contains(t, err.Error(), tt.substr)
			}
		})
	}
}

func TestShowCommand(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	res, err := clitestutil.RunCommand(t, NewShowCommand(), cfg, "sales.db", "orders")
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "| 1 | 2 | 10.5 | shipped |")
	assert.Contains(t, out, "| 10 | 2 | 100.5 | shipped |")
	assert.NotContains(t, out, "| 11 |")
	assert.Contains(t, out, "Page 1 of 3 (23 rows)")
}

func TestShowCommand_LastPage(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	res, err := clitestutil.RunCommand(t, NewShowCommand(), cfg, "sales.db", "orders", "--page", "3")
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "| 21 |")
	assert.Contains(t, out, "| 23 | 3 | 230.5 | cancelled |")
	assert.NotContains(t, out, "| 20 |")
	assert.Contains(t, out, "Page 3 of 3")
}

func TestShowCommand_PageSize(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.UI.PageSize = 50

	res, err := clitestutil.RunCommand(t, NewShowCommand(), cfg, "sales.db", "orders")
	require.NoError(t, err)
	assert.Contains(t, res.Output(), "| 23 |")
	assert.Contains(t, res.Output(), "Page 1 of 1")
}

func TestShowCommand_JSON(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.Format = string(output.ModeJSON)

	res, err := clitestutil.RunCommand(t, NewShowCommand(), cfg, "sales.db", "customers")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(res.Out.Bytes(), &records))
	require.Len(t, records, testutil.CustomersRowCount)
	assert.Equal(t, "Alice", records[0]["name"])
	assert.NotContains(t, res.Output(), "Page 1")
}

func TestShowCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		substr  string
	}{
		{"page zero", []string{"sales.db", "orders", "--page", "0"}, nil, "out of range"},
		{"page past end", []string{"sales.db", "orders", "--page", "4"}, nil, "page 4 out of range (1-3)"},
		{"unknown table", []string{"sales.db", "nope"}, catalog.ErrUnknownTable, ""},
		{"injection", []string{"sales.db", "orders; DROP TABLE orders"}, catalog.ErrUnknownTable, ""},
		{"missing database", []string{"other.db", "orders"}, catalog.ErrDatabaseNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := clitestutil.SalesConfig(t)

			_, err := clitestutil.RunCommand(t, NewShowCommand(), cfg, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.substr != "" {
				assert.Contains(t, err.Error(), tt.substr)
			}
		})
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	res, err := clitestutil.RunCommand(t, NewExportCommand(), cfg, "sales.db", "customers", "-o", "-")
	require.NoError(t, err)

	want := "id,name\n1,Alice\n2,Bob\n3,\"Carol, Inc.\"\n"
	assert.Equal(t, want, res.Output())
}

func TestExportCommand_File(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	out := filepath.Join(t.TempDir(), "orders.csv")

	res, err := clitestutil.RunCommand(t, NewExportCommand(), cfg, "sales.db", "orders", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, res.Output(), "Exported 23 rows to "+out)

	data, err := os.ReadFile(out) //nolint:gosec // test file
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, testutil.OrdersRowCount+1)
	assert.Equal(t, strings.Join(testutil.OrdersColumns, ","), lines[0])
	assert.Equal(t, "1,2,10.5,shipped", lines[1])
}

func TestExportCommand_DefaultName(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	work := t.TempDir()
	t.Chdir(work)

	_, err := clitestutil.RunCommand(t, NewExportCommand(), cfg, "sales.db", "orders")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(work, "sales.db_orders_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(matches[0]), "sales.db_orders_"), ".csv")
	_, err = time.Parse(catalog.TimestampLayout, stamp)
	assert.NoError(t, err)
}

func TestExportCommand_FixedTime(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	t.Chdir(t.TempDir())

	cmd := NewExportCommand()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return runExport(c, args[0], args[1], "", at)
	}

	res, err := clitestutil.RunCommand(t, cmd, cfg, "sales.db", "customers")
	require.NoError(t, err)
	assert.Contains(t, res.Output(), "Exported 3 rows to sales.db_customers_2024-03-01_10-00-00.csv")
	assert.FileExists(t, "sales.db_customers_2024-03-01_10-00-00.csv")
}

func TestExportCommand_UnknownTable(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	out := filepath.Join(t.TempDir(), "x.csv")

	_, err := clitestutil.RunCommand(t, NewExportCommand(), cfg, "sales.db", "sqlite_master", "-o", out)
	require.ErrorIs(t, err, catalog.ErrUnknownTable)
	assert.NoFileExists(t, out, "no file is created for a failed load")
}

func TestConfigCommand(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.UI.SessionSecret = "hunter2"
	cfg.UI.Port = 9100

	res, err := clitestutil.RunCommand(t, NewConfigCommand(), cfg)
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "data_dir: "+cfg.DataDir)
	assert.Contains(t, out, "  port: 9100")
	assert.Contains(t, out, "  page_size: 10")
	assert.NotContains(t, out, "hunter2")
	assert.Equal(t, "hunter2", cfg.UI.SessionSecret)
}

func TestVersionCommand(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)

	res, err := clitestutil.RunCommand(t, NewVersionCommand("1.2.3"), cfg)
	require.NoError(t, err)

	out := res.Output()
	assert.Contains(t, out, "# tablescope v1.2.3")
	assert.Contains(t, out, "- **Go:** go")
	assert.Contains(t, out, ".db")
	assert.Contains(t, out, ".duckdb")
}

func TestVersionCommand_JSON(t *testing.T) {
	cfg := clitestutil.SalesConfig(t)
	cfg.Format = string(output.ModeJSON)

	res, err := clitestutil.RunCommand(t, NewVersionCommand("1.2.3"), cfg)
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal(res.Out.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Contains(t, info.Extensions, ".duckdb")
}

func TestPrintBanner(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRendererWithTTY(&out, &errOut, output.ModeMarkdown, false)
	cfg := clitestutil.SalesConfig(t)

	printBanner(r, "127.0.0.1:8050", cfg)

	assert.Contains(t, out.String(), "# tablescope\n")
	assert.Contains(t, out.String(), "Dashboard running on http://127.0.0.1:8050")
	assert.Contains(t, out.String(), "Serving "+cfg.DataDir)
	assert.Contains(t, errOut.String(), "! No session secret configured")

	out.Reset()
	errOut.Reset()
	cfg.UI.SessionSecret = "hunter2"
	printBanner(r, "127.0.0.1:8050", cfg)

	assert.Empty(t, errOut.String())
}
