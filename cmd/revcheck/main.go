package main

import (
	"fmt"
	"os"

	"github.com/rancher/revcheck/internal/cli"
	"github.com/rancher/revcheck/internal/output"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "revcheck: %v\n", err)
		os.Exit(output.GetExitCode(err))
	}
}
