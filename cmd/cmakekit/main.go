package main

import (
	"os"

	"github.com/cmakekit/cmakekit/pkg/cli"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
