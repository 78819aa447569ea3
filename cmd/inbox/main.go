// Package main is the entry point for the inbox CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Create dependency injection container
	container, err := app.New(configPathFromArgs(args))
	if err != nil {
		// Help and version still work with a broken configuration
		if canRunWithoutContainer(args) {
			return cli.NewRootCommand(nil, version).Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}

// configPathFromArgs finds the --config value before cobra parses flags,
// because the container is built from it.
func configPathFromArgs(args []string) string {
	flag := "--" + cli.ConfigFlag
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, flag+"="); ok {
			return v
		}
	}
	return ""
}

func canRunWithoutContainer(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "help", "--help", "-h", "--version", "-v":
			return true
		}
	}
	return false
}
