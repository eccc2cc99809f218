package router

import "strings"

// Provider is the closed set of providers a model identifier can name.
type Provider int

const (
	// ProviderOther means the identifier asserts no known provider.
	ProviderOther Provider = iota
	// ProviderOpenAI is the OpenAI chat completions API.
	ProviderOpenAI
)

type providerInfo struct {
	name   string
	prefix string
}

// providers is the static prefix table. Matching is case-sensitive and exact.
var providers = map[Provider]providerInfo{
	ProviderOpenAI: {name: "openai", prefix: "openai/"},
}

// classifyOrder fixes the order in which prefixes are tried.
var classifyOrder = []Provider{ProviderOpenAI}

func (p Provider) String() string {
	if info, ok := providers[p]; ok {
		return info.name
	}
	return "other"
}

// Prefix returns the reserved model prefix of p, or "" for ProviderOther.
func (p Provider) Prefix() string {
	return providers[p].prefix
}

// ParseProvider maps a provider name back to its enumeration value.
func ParseProvider(name string) (Provider, bool) {
	for p, info := range providers {
		if info.name == name {
			return p, true
		}
	}
	return ProviderOther, false
}

// IsTargetProviderModel reports whether id carries p's prefix.
// The empty identifier never matches.
func IsTargetProviderModel(p Provider, id string) bool {
	prefix := p.Prefix()
	if prefix == "" || id == "" {
		return false
	}
	return strings.HasPrefix(id, prefix)
}

// StripProviderPrefix removes p's prefix from id, returning id unchanged when
// the prefix is absent. Repeated prefixes are all removed, so stripping an
// already stripped name is a no-op.
func StripProviderPrefix(p Provider, id string) string {
	for IsTargetProviderModel(p, id) {
		id = strings.TrimPrefix(id, p.Prefix())
	}
	return id
}

// Classify returns the provider whose prefix id carries, or ProviderOther.
func Classify(id string) Provider {
	for _, p := range classifyOrder {
		if IsTargetProviderModel(p, id) {
			return p
		}
	}
	return ProviderOther
}
