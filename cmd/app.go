package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"synaptic-router/internal/config"
	"synaptic-router/internal/provider"
	providerfactory "synaptic-router/internal/provider/factory"
	"synaptic-router/internal/router"
)

// app holds the components every command builds from a loaded configuration.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *provider.Registry
	router   *router.Router
}

func newApp(cfg config.Config, logOutput io.Writer) (*app, error) {
	registry := provider.NewRegistry()
	if err := providerfactory.RegisterConfiguredProviders(cfg, registry); err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		logger:   newLogger(cfg.Log, logOutput),
		registry: registry,
		router:   router.New(registry),
	}, nil
}

// parseCommandFlags parses args for a subcommand. It reports done when the
// command should exit without running, as after -h.
func parseCommandFlags(name, usage string, args []string, define func(*flag.FlagSet)) (done bool, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
	}
	define(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, fmt.Errorf("parse %s flags: %w", name, err)
	}
	if fs.NArg() > 0 {
		return false, fmt.Errorf("%s command takes no arguments, got %q", name, fs.Arg(0))
	}
	return false, nil
}

func requireConfigPath(command, path string) error {
	if path == "" {
		return fmt.Errorf("%s command requires --config <path>", command)
	}
	return nil
}
