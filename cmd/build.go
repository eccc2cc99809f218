package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"synaptic-router/internal/config"
	"synaptic-router/internal/translator"
)

const buildUsage = `Usage:
  synaptic-router build --config <path> [--input <file>] [--fingerprint]

Flags:
  --config      string   Path to YAML configuration file (required)
  --input       string   Chat request JSON file, "-" for stdin (default "-")
  --fingerprint          Print the SHA-256 fingerprint instead of the body`

func build(ctx context.Context, args []string) error {
	var cfgPath, inputPath string
	var fingerprintOnly bool
	done, err := parseCommandFlags("build", buildUsage, args, func(fs *flag.FlagSet) {
		fs.StringVar(&cfgPath, "config", "", "path to configuration file")
		fs.StringVar(&inputPath, "input", "-", "chat request JSON file")
		fs.BoolVar(&fingerprintOnly, "fingerprint", false, "print fingerprint only")
	})
	if done || err != nil {
		return err
	}
	if err := requireConfigPath("build", cfgPath); err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input %q: %w", inputPath, err)
		}
		defer f.Close()
		in = f
	}

	return runBuild(ctx, a, in, os.Stdout, fingerprintOnly)
}

func runBuild(ctx context.Context, a *app, in io.Reader, out io.Writer, fingerprintOnly bool) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read chat request: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req, err := translator.DecodeChatRequest(data)
	if err != nil {
		return err
	}

	body, route, err := a.router.Build(req.Messages, req.Options)
	if err != nil {
		return err
	}
	a.logger.Debug("built request body", "provider", route.Provider.String(), "model", route.Model)

	if fingerprintOnly {
		fingerprint, err := body.Fingerprint()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, fingerprint)
		return err
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", encoded)
	return err
}
