package openai

import (
	"errors"
	"fmt"
	"strings"

	"synaptic-router/internal/config"
	"synaptic-router/internal/models"
)

const apiStyleOpenAI = "openai"

// Provider builds request bodies for OpenAI-compatible chat APIs.
type Provider struct {
	name   string
	models []models.Model
}

// New creates a new OpenAI provider from its configured models.
func New(name string, cfg config.ProviderConfig) (*Provider, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("provider name must not be empty")
	}

	modelsList := make([]models.Model, 0, len(cfg.Models))
	for _, model := range cfg.Models {
		if model.APIStyle != "" && model.APIStyle != apiStyleOpenAI {
			return nil, fmt.Errorf("openai provider %q received model %q with unsupported api_style %q", name, model.ID, model.APIStyle)
		}
		modelsList = append(modelsList, models.Model{
			ID:       model.ID,
			Provider: name,
			APIStyle: apiStyleOpenAI,
		})
	}

	return &Provider{
		name:   name,
		models: modelsList,
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) ListModels() []models.Model {
	result := make([]models.Model, len(p.models))
	copy(result, p.models)
	return result
}

func (p *Provider) BuildRequest(messages []models.Message, opts models.Options) (models.RequestBody, error) {
	return BuildRequestBody(messages, opts)
}
