// Package manager provides chain assembly, configuration, and lifecycle
// management for the Event Chain SDK.
package manager

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// FilterFactory builds a filter instance from configuration settings.
// Factories are registered per filter type and invoked when chains are
// materialized from configuration.
type FilterFactory func(settings map[string]interface{}) (core.Filter, error)

// Registry holds filter factories by type name and chain instances by
// chain name. Chains receive a uuid handle at registration time for
// logging and external correlation.
//
// All methods are safe for concurrent use. Note this guards the registry
// itself, not chain traversal; each chain keeps its own single-traversal
// contract.
type Registry struct {
	// factories maps filter type names to their factories.
	factories map[string]FilterFactory

	// chains maps chain names to registered instances.
	chains map[string]*chainEntry

	// mu protects factories and chains.
	mu sync.RWMutex
}

// chainEntry pairs a registered chain with its handle.
type chainEntry struct {
	id    uuid.UUID
	chain *core.FilterChain
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FilterFactory),
		chains:    make(map[string]*chainEntry),
	}
}

// RegisterFilterType registers a factory for a filter type name.
//
// Returns:
//   - error: InvalidArgument if the factory is nil,
//     InvalidConfiguration if the type is already registered
func (r *Registry) RegisterFilterType(name string, factory FilterFactory) error {
	if factory == nil {
		return types.NewChainError(types.InvalidArgument, "filter factory must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return types.Errorf(types.InvalidConfiguration, "filter type %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// CreateFilter builds a filter of the given type from settings.
//
// Returns:
//   - core.Filter: the new filter
//   - error: FilterNotFound if no factory is registered for the type,
//     or the factory's own error
func (r *Registry) CreateFilter(filterType string, settings map[string]interface{}) (core.Filter, error) {
	r.mu.RLock()
	factory, ok := r.factories[filterType]
	r.mu.RUnlock()

	if !ok {
		return nil, types.Errorf(types.FilterNotFound, "no factory for filter type %q", filterType)
	}
	return factory(settings)
}

// RegisterChain registers a chain under a unique name and returns its handle.
//
// Returns:
//   - uuid.UUID: the chain's handle
//   - error: InvalidArgument if chain is nil,
//     InvalidConfiguration if the name is taken
func (r *Registry) RegisterChain(name string, chain *core.FilterChain) (uuid.UUID, error) {
	if chain == nil {
		return uuid.Nil, types.NewChainError(types.InvalidArgument, "chain must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chains[name]; exists {
		return uuid.Nil, types.Errorf(types.InvalidConfiguration, "chain %q already registered", name)
	}

	id := uuid.New()
	r.chains[name] = &chainEntry{id: id, chain: chain}
	return id, nil
}

// GetChain returns the chain registered under name.
func (r *Registry) GetChain(name string) (*core.FilterChain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.chains[name]
	if !ok {
		return nil, false
	}
	return entry.chain, true
}

// ChainID returns the handle assigned to a registered chain.
func (r *Registry) ChainID(name string) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.chains[name]
	if !ok {
		return uuid.Nil, false
	}
	return entry.id, true
}

// RemoveChain unregisters the chain with the given name.
//
// Returns:
//   - error: ChainNotFound if no chain has that name
func (r *Registry) RemoveChain(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chains[name]; !ok {
		return types.Errorf(types.ChainNotFound, "chain %q not registered", name)
	}
	delete(r.chains, name)
	return nil
}

// ChainNames returns the registered chain names in sorted order.
func (r *Registry) ChainNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReplaceChains atomically swaps the full chain set, assigning fresh
// handles. Used by the config watcher to install a reloaded configuration
// without a window where some chains are missing.
func (r *Registry) ReplaceChains(chains map[string]*core.FilterChain) {
	entries := make(map[string]*chainEntry, len(chains))
	for name, chain := range chains {
		entries[name] = &chainEntry{id: uuid.New(), chain: chain}
	}

	r.mu.Lock()
	r.chains = entries
	r.mu.Unlock()
}
