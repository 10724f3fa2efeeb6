package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "databases",
		Aliases: []string{"dbs"},
		Short:   "List database files in the data directory",
		Example: `  # List databases in the configured data directory
  tablescope databases

  # List databases in another directory as JSON
  tablescope databases --data-dir ./data --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			infos, err := catalog.StatDatabases(cc.Cfg.DataDir, cc.Cfg.Extensions...)
			if err != nil {
				return err
			}
			if len(infos) == 0 && cc.Renderer.EffectiveMode() != output.ModeJSON {
				cc.Renderer.Muted(fmt.Sprintf("No database files in %s", cc.Cfg.DataDir))
				return nil
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{
					info.Name,
					humanize.Bytes(uint64(info.Size)), //nolint:gosec // file sizes are non-negative
					info.ModTime.Format(time.DateTime),
				}
			}
			records := make([]databaseRecord, len(infos))
			for i, info := range infos {
				records[i] = databaseRecord{Name: info.Name, Size: info.Size, Modified: info.ModTime}
			}

			return cc.renderRows([]string{"database", "size", "modified"}, rows, records)
		},
	}
}

type databaseRecord struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tables <database>",
		Short:   "List the tables of a database",
		Example: `  tablescope tables sales.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)

			path, err := cc.databasePath(args[0])
			if err != nil {
				return err
			}
			tables, err := cc.Inspector.ListTables(cmd.Context(), path)
			if err != nil {
				return err
			}

			rows := make([][]string, len(tables))
			for i, name := range tables {
				rows[i] = []string{strconv.Itoa(i + 1), name}
			}
			return cc.renderRows([]string{"#", "table"}, rows, tables)
		},
	}
}
