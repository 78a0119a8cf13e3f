// Package main provides the entry point for the stackmap CLI tool.
package main

import (
	"github.com/stackmap/stackmap/cmd/stackmap/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
