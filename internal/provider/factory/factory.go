package factory

import (
	"errors"
	"fmt"

	"synaptic-router/internal/config"
	"synaptic-router/internal/provider"
	openaiProvider "synaptic-router/internal/provider/openai"
)

// RegisterConfiguredProviders constructs providers from configuration and stores them in the registry.
func RegisterConfiguredProviders(cfg config.Config, registry *provider.Registry) error {
	if registry == nil {
		return errors.New("registry must not be nil")
	}

	openAIProvider, err := openaiProvider.New("openai", cfg.Providers.OpenAI)
	if err != nil {
		return fmt.Errorf("initialise openai provider: %w", err)
	}
	if err := registry.RegisterProvider(openAIProvider, cfg.Providers.OpenAI.Aliases); err != nil {
		return fmt.Errorf("register openai provider: %w", err)
	}

	return nil
}
