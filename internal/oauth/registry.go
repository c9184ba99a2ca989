package oauth

import (
	"fmt"
	"sort"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
)

// Registry holds one adapter per configured provider.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an adapter for every enabled provider.
// Providers without client credentials are skipped and logged.
func NewRegistry(providers []config.ProviderConfig, deps Deps) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, p := range providers {
		if !p.Enabled() {
			deps.Logger.WithField("provider", p.Name).Warn("provider has no client credentials, skipping")
			continue
		}
		adapter, err := NewAdapter(p, deps)
		if err != nil {
			return nil, err
		}
		r.adapters[p.Name] = adapter
	}
	return r, nil
}

// NewAdapter creates the adapter matching the provider's protocol.
func NewAdapter(p config.ProviderConfig, deps Deps) (Adapter, error) {
	switch p.Protocol {
	case config.ProtocolOAuth1:
		return NewOAuth1Adapter(p, deps), nil
	case config.ProtocolOAuth2:
		return NewAuthCodeAdapter(p, deps), nil
	case config.ProtocolOAuth2PKCE:
		return NewPKCEAdapter(p, deps), nil
	default:
		return nil, fmt.Errorf("unsupported protocol %q for provider %s", p.Protocol, p.Name)
	}
}

// Get returns the adapter for name, or ErrUnknownProvider.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, appErrors.ErrUnknownProvider
	}
	return a, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
