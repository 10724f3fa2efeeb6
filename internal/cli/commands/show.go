package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Page int
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <database> <table>",
		Short: "Print one page of a table",
		Long: `Load a table and print one page of its rows.

The page size comes from ui.page_size (default 10), the same size the
dashboard grid uses.`,
		Example: `  # First page of orders
  tablescope show sales.db orders

  # Third page, as markdown
  tablescope show sales.db orders --page 3 --format markdown`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number, starting at 1")

	return cmd
}

func runShow(cmd *cobra.Command, database, table string, opts *ShowOptions) error {
	cc := NewCommandContext(cmd)

	path, err := cc.databasePath(database)
	if err != nil {
		return err
	}
	rs, err := cc.Inspector.LoadTable(cmd.Context(), path, table)
	if err != nil {
		return err
	}

	size := cc.Cfg.UI.PageSize
	pages := rs.PageCount(size)
	if opts.Page < 1 || opts.Page > pages {
		return fmt.Errorf("page %d out of range (1-%d)", opts.Page, pages)
	}

	rows := rs.Page(opts.Page-1, size)
	cells := make([][]string, len(rows))
	records := make([]map[string]any, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		records[i] = make(map[string]any, len(row))
		for j, v := range row {
			cells[i][j] = catalog.FormatValue(v)
			records[i][rs.Columns[j]] = v
		}
	}

	if err := cc.renderRows(rs.Columns, cells, records); err != nil {
		return err
	}
	if cc.Renderer.EffectiveMode() != output.ModeJSON {
		cc.Renderer.Muted(fmt.Sprintf("Page %d of %d (%s rows)", opts.Page, pages, humanize.Comma(int64(rs.Len()))))
	}
	return nil
}
