package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		if _, err := catalog.EngineFor("x" + ext); err != nil {
			return fmt.Errorf("invalid extensions: %w", err)
		}
	}
	if _, err := output.ParseMode(c.Format); err != nil {
		return err
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port %d is out of range", c.UI.Port)
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	return nil
}

// ValidateDataDir checks that the data directory exists.
func (c *Config) ValidateDataDir() error {
	info, err := os.Stat(c.DataDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s\nHint: Create the directory or use --data-dir to specify a different path", c.DataDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory is not a directory: %s", c.DataDir)
	}
	return nil
}
