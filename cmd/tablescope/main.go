// Package main provides the CLI for the tablescope database dashboard.
package main

import (
	"os"

	"github.com/leapstack-labs/tablescope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
