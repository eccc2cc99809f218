package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"synaptic-router/internal/models"
)

// ErrUnknownModel indicates the requested model is not registered.
var ErrUnknownModel = errors.New("unknown model")

// ErrUnknownProvider indicates no provider is registered under the requested name.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrDuplicateModel indicates an attempt to register the same model twice.
var ErrDuplicateModel = errors.New("model already registered")

// Provider builds request bodies in one provider's wire format.
type Provider interface {
	Name() string
	ListModels() []models.Model
	BuildRequest(messages []models.Message, opts models.Options) (models.RequestBody, error)
}

type modelEntry struct {
	model    models.Model
	provider Provider
}

// Registry maintains a mapping of model IDs to providers.
type Registry struct {
	mu     sync.RWMutex
	models map[string]modelEntry
	byName map[string]Provider
}

// NewRegistry constructs an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]modelEntry),
		byName: make(map[string]Provider),
	}
}

// RegisterProvider adds the provider and its models to the registry, wiring optional aliases.
func (r *Registry) RegisterProvider(p Provider, aliases map[string]string) error {
	if p == nil {
		return errors.New("provider must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.Name()]; exists {
		return fmt.Errorf("provider %q already registered", p.Name())
	}

	modelsList := p.ListModels()
	for _, model := range modelsList {
		if _, exists := r.models[model.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateModel, model.ID)
		}
	}

	r.byName[p.Name()] = p
	for _, model := range modelsList {
		r.models[model.ID] = modelEntry{
			model:    model,
			provider: p,
		}
	}

	// Sorted so that conflicts are reported deterministically.
	aliasNames := make([]string, 0, len(aliases))
	for alias := range aliases {
		aliasNames = append(aliasNames, alias)
	}
	sort.Strings(aliasNames)

	for _, alias := range aliasNames {
		target := aliases[alias]
		if _, exists := r.models[alias]; exists {
			return fmt.Errorf("alias %q conflicts with existing model", alias)
		}

		targetEntry, ok := r.models[target]
		if !ok {
			return fmt.Errorf("alias %q references unknown model %q", alias, target)
		}

		r.models[alias] = targetEntry
	}

	return nil
}

// LookupModel returns the provider and metadata for a given model ID or alias.
func (r *Registry) LookupModel(modelID string) (models.Model, Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.models[modelID]
	if !ok {
		return models.Model{}, nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	return entry.model, entry.provider, nil
}

// LookupProvider returns the provider registered under name.
func (r *Registry) LookupProvider(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Models lists every registered model ID and alias, sorted by ID.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
