// Package main is the entry point for tripctl, a command-line client for
// browsing DFW places and managing trips in the same store the API uses.
package main

import (
	"fmt"
	"os"

	"github.com/pkordes/dfw-explorer/cmd/tripctl/cli"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{Version: version, Commit: commit})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
