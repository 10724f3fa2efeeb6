// Package main provides tests for the tablescope CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/leapstack-labs/tablescope/internal/cli"
	"github.com/leapstack-labs/tablescope/internal/testutil"
)

// isolate keeps config files of the developer machine out of the run.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "tablescope v") {
		t.Errorf("version output should contain 'tablescope v', got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)

	output, err := run(t, "--version")
	if err != nil {
		t.Errorf("--version error = %v", err)
	}
	if !strings.Contains(output, "tablescope "+cli.Version) {
		t.Errorf("--version output should contain the version, got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	isolate(t)

	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"serve", "databases", "tables", "show", "export", "config", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
	for _, flag := range []string{"--data-dir", "--format", "--port", "--page-size"} {
		if !strings.Contains(output, flag) {
			t.Errorf("help output should contain '%s', got: %s", flag, output)
		}
	}
}

func TestDatabasesCommand(t *testing.T) {
	isolate(t)
	dataDir := testutil.SetupSalesDir(t)

	output, err := run(t, "databases", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("databases command error = %v", err)
	}
	if !strings.Contains(output, "sales.db") {
		t.Errorf("databases output should contain 'sales.db', got: %s", output)
	}
	if strings.Contains(output, "notes.txt") {
		t.Errorf("databases output should not list notes.txt, got: %s", output)
	}
}

func TestFormatFlag(t *testing.T) {
	isolate(t)
	dataDir := testutil.SetupSalesDir(t)

	output, err := run(t, "--format", "json", "tables", "sales.db", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("tables command error = %v", err)
	}
	if !strings.HasPrefix(output, "[\n  \"orders\"") {
		t.Errorf("tables output should be a JSON array, got: %s", output)
	}

	if _, err := run(t, "--format", "xml", "version"); err == nil {
		t.Error("unknown format should fail config loading")
	}
}

func TestDataDirFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TABLESCOPE_DATA_DIR", testutil.SetupSalesDir(t))

	output, err := run(t, "tables", "sales.db")
	if err != nil {
		t.Fatalf("tables command error = %v", err)
	}
	if !strings.Contains(output, "orders") || !strings.Contains(output, "customers") {
		t.Errorf("tables output should list orders and customers, got: %s", output)
	}
}

func TestDataDirFromConfigFile(t *testing.T) {
	isolate(t)
	dataDir := testutil.SetupSalesDir(t)
	if err := os.WriteFile("tablescope.yaml", []byte("data_dir: "+dataDir+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "show", "sales.db", "orders", "--page", "3")
	if err != nil {
		t.Fatalf("show command error = %v", err)
	}
	if !strings.Contains(output, "Page 3 of 3 (23 rows)") {
		t.Errorf("show output should contain the page footer, got: %s", output)
	}
}

func TestExportCommand(t *testing.T) {
	isolate(t)
	dataDir := testutil.SetupSalesDir(t)

	output, err := run(t, "export", "sales.db", "customers", "--data-dir", dataDir, "-o", "-")
	if err != nil {
		t.Fatalf("export command error = %v", err)
	}
	if !strings.HasPrefix(output, "id,name\n") {
		t.Errorf("export output should start with the CSV header, got: %s", output)
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	t.Setenv("TABLESCOPE_UI__PORT", "9100")
	t.Setenv("TABLESCOPE_UI__SESSION_SECRET", "hunter2")

	output, err := run(t, "config")
	if err != nil {
		t.Fatalf("config command error = %v", err)
	}
	if !strings.Contains(output, "port: 9100") {
		t.Errorf("config output should contain the env port, got: %s", output)
	}
	if strings.Contains(output, "hunter2") {
		t.Errorf("config output should mask the session secret, got: %s", output)
	}
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("TABLESCOPE_EXTENSIONS", "csv")

	if _, err := run(t, "version"); err == nil {
		t.Error("invalid extension should fail config loading")
	}
}

func TestServeMissingDataDir(t *testing.T) {
	isolate(t)

	_, err := run(t, "--data-dir", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("serving a missing data directory should fail")
	}
	if !strings.Contains(err.Error(), "--data-dir") {
		t.Errorf("error should point at --data-dir, got: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			isolate(t)

			if _, err := run(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)

	if _, err := run(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
