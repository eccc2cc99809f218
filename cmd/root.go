package cmd

import (
	"context"
	"fmt"
	"strings"
)

const usage = `synaptic-router turns provider-agnostic chat requests into provider request bodies.

Usage:
  synaptic-router <command> [flags]

Commands:
  serve    Start the HTTP server
  build    Build a single request body from JSON on stdin or a file

Flags:
  -h, --help  Show this help message`

// Execute runs the CLI dispatcher with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return printUsage()
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "build":
		return build(ctx, args[1:])
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func printUsage() error {
	fmt.Println(strings.TrimSpace(usage))
	return nil
}
