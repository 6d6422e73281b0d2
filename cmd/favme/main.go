package main

import (
	"fmt"
	"os"

	"github.com/nikbrunner/favme/internal/launcher"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := newCLIApp(deps{launcher: launcher.New()})
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
