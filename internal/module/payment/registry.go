package payment

import (
	"fmt"
	"sync"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment/provider"
)

// ProviderRegistry manages the registered payment providers, keyed by
// gateway name.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]provider.Provider),
	}
}

// Register registers a provider under its own name.
func (r *ProviderRegistry) Register(p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name.
func (r *ProviderRegistry) Get(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// GetByGateway returns the provider serving the given gateway.
func (r *ProviderRegistry) GetByGateway(gw gateway.Gateway) (provider.Provider, error) {
	return r.Get(string(gw))
}

// List returns all registered provider names.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
