package main

import (
	"fmt"
	"os"

	"github.com/roach88/execdash/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "execdash:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
