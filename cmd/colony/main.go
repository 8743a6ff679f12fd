// Package main is the entry point of the colony CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/colony/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
