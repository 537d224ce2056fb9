package main

import (
	"os"

	"github.com/LDY1998/prusti-dev/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
