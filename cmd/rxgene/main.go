// CLI client entry point for RxGene-Intelligence.
package main

import (
	"os"

	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute handles root command creation, flag registration and error
	// printing; the only job left here is the exit code.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
