package main

import (
	"fmt"
	"os"

	"github.com/eth-infinitism/aadeploy/internal/cli"
	"github.com/eth-infinitism/aadeploy/internal/config"
)

// Set by the release build with -ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
