package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/config"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Inspector *catalog.Inspector
	Renderer  *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.Format)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Inspector: catalog.NewInspector(logger),
		Renderer:  r,
	}
}

// databasePath resolves a database name against the data directory.
func (c *CommandContext) databasePath(name string) (string, error) {
	return catalog.ResolveDatabase(c.Cfg.DataDir, name, c.Cfg.Extensions...)
}

// renderRows writes rows as a table, or records as JSON in json mode.
// Records must line up with rows.
func (c *CommandContext) renderRows(header []string, rows [][]string, records any) error {
	if c.Renderer.EffectiveMode() == output.ModeJSON {
		return c.Renderer.JSON(records)
	}
	c.Renderer.Table(header, rows)
	return nil
}
