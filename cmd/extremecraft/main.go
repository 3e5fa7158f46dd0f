package main

import (
	"fmt"
	"os"

	"github.com/roach88/extremecraft/internal/cli"
	"github.com/roach88/extremecraft/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.Version = version
	logging.SetDefaultStructuredLogger(cli.Name, version)

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
