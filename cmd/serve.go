package cmd

import (
	"context"
	"flag"
	"os"

	"synaptic-router/internal/config"
	"synaptic-router/internal/server"
)

const serveUsage = `Usage:
  synaptic-router serve --config <path> [--port <port>]

Flags:
  --config string   Path to YAML configuration file (required)
  --port   int      Listen on this port instead of server.port`

type serveOptions struct {
	configPath string
	port       int
}

func (o *serveOptions) define(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to configuration file")
	fs.IntVar(&o.port, "port", 0, "listen port")
}

// loadConfig applies --port before validation, so a configuration without
// a usable server.port still starts when the flag is given.
func (o serveOptions) loadConfig() (config.Config, error) {
	if err := requireConfigPath("serve", o.configPath); err != nil {
		return config.Config{}, err
	}
	var overrides []config.Override
	if o.port != 0 {
		overrides = append(overrides, config.WithPort(o.port))
	}
	return config.Load(o.configPath, overrides...)
}

func serve(ctx context.Context, args []string) error {
	var opts serveOptions
	if done, err := parseCommandFlags("serve", serveUsage, args, opts.define); done || err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}
	a.logger.Info("configuration loaded",
		"path", opts.configPath,
		"port", cfg.Server.Port,
		"models", len(a.registry.Models()),
	)

	srv, err := server.New(a.cfg, a.router, a.registry, a.logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
