package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// versionInfo is the json form of the version command.
type versionInfo struct {
	Version    string   `json:"version"`
	Go         string   `json:"go"`
	Extensions []string `json:"extensions"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display tablescope version, Go runtime and supported database file extensions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			info := versionInfo{Version: version, Go: runtime.Version(), Extensions: catalog.ListExtensions()}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}
			r.Header(1, "tablescope v"+info.Version)
			r.KeyValue("Go", info.Go)
			r.KeyValue("Database extensions", strings.Join(info.Extensions, ", "))
			return nil
		},
	}
}
