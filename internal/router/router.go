package router

import (
	"errors"
	"fmt"
	"strings"

	"synaptic-router/internal/models"
	"synaptic-router/internal/provider"
)

// Route is the outcome of dispatching a model identifier.
type Route struct {
	Provider Provider
	Backend  provider.Provider
	// Model is the provider-local model name sent upstream.
	Model string
}

// Router dispatches unified requests to the appropriate provider.
type Router struct {
	registry *provider.Registry
}

// New constructs a router backed by the provided registry.
func New(registry *provider.Registry) *Router {
	return &Router{
		registry: registry,
	}
}

// defaultBackend serves bare model names that no registered model or alias claims.
const defaultBackend = ProviderOpenAI

// Route resolves the backend and provider-local name for a model identifier.
// Prefixed identifiers go to the backend registered under the provider's
// name; bare names are looked up among registered models and aliases, and
// otherwise passed unchanged to the default backend with ProviderOther.
func (r *Router) Route(modelID string) (Route, error) {
	if p := Classify(modelID); p != ProviderOther {
		backend, err := r.registry.LookupProvider(p.String())
		if err != nil {
			return Route{}, err
		}
		return Route{
			Provider: p,
			Backend:  backend,
			Model:    StripProviderPrefix(p, modelID),
		}, nil
	}

	modelInfo, backend, err := r.registry.LookupModel(modelID)
	if errors.Is(err, provider.ErrUnknownModel) {
		fallback, lookupErr := r.registry.LookupProvider(defaultBackend.String())
		if lookupErr != nil {
			return Route{}, err
		}
		return Route{
			Provider: ProviderOther,
			Backend:  fallback,
			Model:    modelID,
		}, nil
	}
	if err != nil {
		return Route{}, err
	}
	p, _ := ParseProvider(modelInfo.Provider)
	return Route{
		Provider: p,
		Backend:  backend,
		Model:    modelInfo.ID,
	}, nil
}

// Build routes the request and asks the selected backend for its request body.
func (r *Router) Build(messages []models.Message, opts models.Options) (models.RequestBody, Route, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return models.RequestBody{}, Route{}, provider.NewError(provider.KindNoModelSpecified, "model option is required")
	}

	route, err := r.Route(opts.Model)
	if err != nil {
		return models.RequestBody{}, Route{}, err
	}

	routed := opts
	routed.Model = route.Model

	body, err := route.Backend.BuildRequest(messages, routed)
	if err != nil {
		return models.RequestBody{}, Route{}, fmt.Errorf("provider %s build request: %w", route.Backend.Name(), err)
	}
	return body, route, nil
}
