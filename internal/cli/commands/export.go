package commands

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/catalog"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <database> <table>",
		Short: "Export a table as CSV",
		Long: `Export every row of a table as CSV with a header row.

Without --output the file is written to the working directory as
{database}_{table}_{YYYY-MM-DD_HH-MM-SS}.csv.`,
		Example: `  # Timestamped file in the current directory
  tablescope export sales.db orders

  # Write to stdout
  tablescope export sales.db orders -o -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], args[1], output, time.Now())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, database, table, output string, now time.Time) error {
	cc := NewCommandContext(cmd)

	path, err := cc.databasePath(database)
	if err != nil {
		return err
	}
	rs, err := cc.Inspector.LoadTable(cmd.Context(), path, table)
	if err != nil {
		return err
	}

	if output == "-" {
		return rs.WriteCSV(cmd.OutOrStdout())
	}
	if output == "" {
		output = catalog.ExportFileName(database, table, now)
	}

	f, err := os.Create(output) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	buf := bufio.NewWriter(f)
	if err := rs.WriteCSV(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output, err)
	}

	cc.Logger.Info("exported table", "database", database, "table", table, "rows", rs.Len(), "file", output)
	cc.Renderer.Success(fmt.Sprintf("Exported %d rows to %s", rs.Len(), output))
	return nil
}
