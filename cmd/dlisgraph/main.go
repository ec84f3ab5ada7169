// Package main provides the dlisgraph CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/dlisgraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
