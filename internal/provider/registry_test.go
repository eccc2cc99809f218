package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synaptic-router/internal/models"
)

type stubProvider struct {
	name   string
	models []models.Model
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) ListModels() []models.Model { return s.models }

func (s stubProvider) BuildRequest(messages []models.Message, opts models.Options) (models.RequestBody, error) {
	return models.RequestBody{Model: opts.Model, Messages: messages}, nil
}

func newStub(name string, ids ...string) stubProvider {
	p := stubProvider{name: name}
	for _, id := range ids {
		p.models = append(p.models, models.Model{ID: id, Provider: name, APIStyle: "openai"})
	}
	return p
}

func TestRegistry_LookupModelAndAlias(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterProvider(newStub("openai", "gpt-4o", "gpt-4o-mini"), map[string]string{"fast": "gpt-4o-mini"}))

	model, p, err := reg.LookupModel("fast")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", model.ID)
	assert.Equal(t, "openai", p.Name())

	_, _, err = reg.LookupModel("missing")
	assert.True(t, errors.Is(err, ErrUnknownModel))

	assert.Equal(t, []string{"fast", "gpt-4o", "gpt-4o-mini"}, reg.Models())
}

func TestRegistry_LookupProvider(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterProvider(newStub("openai", "gpt-4o"), nil))

	p, err := reg.LookupProvider("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = reg.LookupProvider("other")
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestRegistry_RegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Registry) error
		wantErr string
	}{
		{
			name:    "nil provider",
			setup:   func(r *Registry) error { return r.RegisterProvider(nil, nil) },
			wantErr: "provider must not be nil",
		},
		{
			name: "duplicate provider",
			setup: func(r *Registry) error {
				if err := r.RegisterProvider(newStub("openai", "a"), nil); err != nil {
					return err
				}
				return r.RegisterProvider(newStub("openai", "b"), nil)
			},
			wantErr: `provider "openai" already registered`,
		},
		{
			name: "duplicate model",
			setup: func(r *Registry) error {
				if err := r.RegisterProvider(newStub("one", "a"), nil); err != nil {
					return err
				}
				return r.RegisterProvider(newStub("two", "a"), nil)
			},
			wantErr: "model already registered: a",
		},
		{
			name:    "alias to unknown model",
			setup:   func(r *Registry) error { return r.RegisterProvider(newStub("openai", "a"), map[string]string{"x": "b"}) },
			wantErr: `alias "x" references unknown model "b"`,
		},
		{
			name:    "alias shadows model",
			setup:   func(r *Registry) error { return r.RegisterProvider(newStub("openai", "a", "b"), map[string]string{"a": "b"}) },
			wantErr: `alias "a" conflicts with existing model`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup(NewRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
