// Package config provides configuration management for the tablescope CLI.
//
// Configuration is layered with koanf: built-in defaults, a YAML file,
// a .env file, TABLESCOPE_* environment variables and explicitly set flags,
// each overriding the one before.
package config

import (
	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/cli/output"
)

// Default configuration values.
const (
	DefaultDataDir  = "/mnt/data"
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 8050
	DefaultDebug    = true
	DefaultPageSize = 10
	DefaultFormat   = string(output.ModeAuto)

	// FileName is the config file looked up in the working directory and
	// in the user config directory.
	FileName = "tablescope.yaml"

	// EnvPrefix prefixes environment variables; a double underscore
	// separates nested keys (TABLESCOPE_UI__PORT -> ui.port).
	EnvPrefix = "TABLESCOPE_"
)

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Host          string `koanf:"host" yaml:"host"`
	Port          int    `koanf:"port" yaml:"port"`
	Debug         bool   `koanf:"debug" yaml:"debug"`
	PageSize      int    `koanf:"page_size" yaml:"page_size"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty"`
}

// Config holds all CLI configuration options.
type Config struct {
	DataDir    string   `koanf:"data_dir" yaml:"data_dir"`
	Extensions []string `koanf:"extensions" yaml:"extensions"`
	Verbose    bool     `koanf:"verbose" yaml:"verbose"`
	Format     string   `koanf:"format" yaml:"format"`
	UI         UIConfig `koanf:"ui" yaml:"ui"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		Extensions: []string{catalog.DefaultExtension},
		Format:     DefaultFormat,
		UI: UIConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Debug:    DefaultDebug,
			PageSize: DefaultPageSize,
		},
	}
}

// defaultsMap mirrors Default as koanf keys.
func defaultsMap() map[string]any {
	return map[string]any{
		"data_dir":     DefaultDataDir,
		"extensions":   []string{catalog.DefaultExtension},
		"verbose":      false,
		"format":       DefaultFormat,
		"ui.host":      DefaultHost,
		"ui.port":      DefaultPort,
		"ui.debug":     DefaultDebug,
		"ui.page_size": DefaultPageSize,
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	out.Extensions = append([]string(nil), c.Extensions...)
	if out.UI.SessionSecret != "" {
		out.UI.SessionSecret = "********"
	}
	return &out
}
