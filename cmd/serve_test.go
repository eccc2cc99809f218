package cmd

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestServeOptions_PortFlagRescuesMissingPort(t *testing.T) {
	path := writeConfig(t, "server:\n  port: ${SYNAPTIC_SERVE_TEST_PORT}\nproviders:\n  openai:\n    models:\n      - id: gpt-4o\n")

	_, err := serveOptions{configPath: path}.loadConfig()
	assert.ErrorContains(t, err, "server.port must be a valid TCP port")

	cfg, err := serveOptions{configPath: path, port: 9393}.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9393, cfg.Server.Port)
}

func TestServeOptions_PortFlagOverridesConfig(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := serveOptions{configPath: path, port: 9000}.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)

	_, err = serveOptions{configPath: path, port: -1}.loadConfig()
	assert.ErrorContains(t, err, "got -1")
}

func TestServeOptions_Define(t *testing.T) {
	var opts serveOptions
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts.define(fs)

	require.NoError(t, fs.Parse([]string{"--config", "c.yaml", "--port", "7000"}))
	assert.Equal(t, serveOptions{configPath: "c.yaml", port: 7000}, opts)
}

func TestNewApp_RegistersConfiguredModels(t *testing.T) {
	a := testApp(t)
	assert.Equal(t, []string{"gpt-4o"}, a.registry.Models())

	route, err := a.router.Route("gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "openai", route.Backend.Name())
}
