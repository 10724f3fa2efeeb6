package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/tablescope/internal/cli/config"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
	"github.com/leapstack-labs/tablescope/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard",
		Long: `Start a local web server with the database dashboard.

The dashboard offers:
- A dropdown of database files in the data directory, kept up to date
- A dropdown of the selected database's tables
- A paginated view of the selected table
- CSV download of the selected table`,
		Example: `  # Start on the default address (127.0.0.1:8050)
  tablescope serve

  # Serve another directory on all interfaces
  tablescope serve --data-dir ./data --host 0.0.0.0 --port 3000`,
		Args: cobra.NoArgs,
		RunE: RunServe,
	}

	AddServeFlags(cmd.Flags())
	return cmd
}

// AddServeFlags registers the dashboard flags. Values are read through
// the config layer, so defaults live there.
func AddServeFlags(flags *pflag.FlagSet) {
	flags.String("host", config.DefaultHost, "Address to listen on")
	flags.Int("port", config.DefaultPort, "Port to serve on")
	flags.Bool("debug", config.DefaultDebug, "Enable auto-reload endpoints")
	flags.Int("page-size", config.DefaultPageSize, "Rows per grid page")
}

// RunServe starts the dashboard and blocks until the command context is
// cancelled.
func RunServe(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	if err := cc.Cfg.ValidateDataDir(); err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Inspector:     cc.Inspector,
		DataDir:       cc.Cfg.DataDir,
		Extensions:    cc.Cfg.Extensions,
		Host:          cc.Cfg.UI.Host,
		Port:          cc.Cfg.UI.Port,
		Debug:         cc.Cfg.UI.Debug,
		PageSize:      cc.Cfg.UI.PageSize,
		SessionSecret: cc.Cfg.UI.SessionSecret,
		Logger:        cc.Logger,
	})

	printBanner(cc.Renderer, server.Addr(), cc.Cfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// printBanner writes the startup lines shown while the dashboard runs.
func printBanner(r *output.Renderer, addr string, cfg *config.Config) {
	r.Header(1, "tablescope")
	r.Printf("Dashboard running on http://%s\n", addr)
	r.Muted(fmt.Sprintf("Serving %s", cfg.DataDir))
	if cfg.UI.SessionSecret == "" {
		r.Warning("No session secret configured; selections are forgotten on restart")
	}
	r.Muted("Press Ctrl+C to stop")
}
