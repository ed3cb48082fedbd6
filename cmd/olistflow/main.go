// Package main is the olistflow command: the Olist e-commerce ETL and
// analytics dashboard.
package main

import (
	"os"

	"github.com/leapstack-labs/olistflow/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	if version != "" {
		cli.Version = version
	}
	if commit != "" {
		cli.GitCommit = commit
	}
	if date != "" {
		cli.BuildDate = date
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
