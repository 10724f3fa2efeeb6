// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablescope/internal/cli/config"
	"github.com/leapstack-labs/tablescope/internal/testutil"
)

// Result holds the captured output of a command run.
type Result struct {
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// Output returns the captured stdout.
func (r *Result) Output() string {
	return r.Out.String()
}

// ErrorOutput returns the captured stderr.
func (r *Result) ErrorOutput() string {
	return r.ErrOut.String()
}

// SalesConfig returns a config pointing at a fresh sales fixture directory.
func SalesConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = testutil.SetupSalesDir(t)
	return cfg
}

// RunCommand executes cmd with args under a context carrying cfg and a
// test logger, bypassing config loading.
func RunCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (*Result, error) {
	t.Helper()

	res := &Result{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}
	cmd.SetOut(res.Out)
	cmd.SetErr(res.ErrOut)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	err := cmd.ExecuteContext(ctx)
	return res, err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
