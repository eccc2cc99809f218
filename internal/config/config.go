package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	apiStyleOpenAI = "openai"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config represents the application configuration parsed from YAML.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig defines listener configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProvidersConfig catalogues configured providers.
type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai"`
}

// ProviderConfig captures the models a provider serves and their aliases.
type ProviderConfig struct {
	Models  []ModelConfig     `yaml:"models"`
	Aliases map[string]string `yaml:"aliases"`
}

// ModelConfig describes a model exposed by a provider.
type ModelConfig struct {
	ID       string `yaml:"id"`
	APIStyle string `yaml:"api_style"`
}

// Override adjusts a decoded configuration before it is validated.
type Override func(*Config)

// WithPort replaces server.port, for example from a command-line flag.
func WithPort(port int) Override {
	return func(c *Config) {
		c.Server.Port = port
	}
}

// Load reads YAML configuration from disk, applies the overrides and
// validates the result. A .env file next to the configuration is loaded
// first, and ${VAR} references in the YAML are expanded from the environment.
func Load(path string, overrides ...Override) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Read is Load without overrides or validation.
func Read(path string) (Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(absPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %q: %w", envPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	cfg, err := Decode([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode unmarshals YAML configuration and fills in defaults.
func Decode(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	for i := range c.Providers.OpenAI.Models {
		if c.Providers.OpenAI.Models[i].APIStyle == "" {
			c.Providers.OpenAI.Models[i].APIStyle = apiStyleOpenAI
		}
	}
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn or error", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}

	return validateProvider("openai", c.Providers.OpenAI)
}

func validateProvider(name string, provider ProviderConfig) error {
	seen := make(map[string]struct{}, len(provider.Models))
	for _, model := range provider.Models {
		if strings.TrimSpace(model.ID) == "" {
			return fmt.Errorf("provider %s: model id must not be empty", name)
		}
		if _, dup := seen[model.ID]; dup {
			return fmt.Errorf("provider %s: model %q listed twice", name, model.ID)
		}
		seen[model.ID] = struct{}{}
		if model.APIStyle != apiStyleOpenAI {
			return fmt.Errorf("provider %s: model api_style %q must be %q", name, model.APIStyle, apiStyleOpenAI)
		}
	}

	for alias, target := range provider.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("provider %s: alias name must not be empty", name)
		}
		if strings.TrimSpace(target) == "" {
			return fmt.Errorf("provider %s: alias %q target must not be empty", name, alias)
		}
	}

	return nil
}
