// Package manager provides chain assembly, configuration, and lifecycle
// management for the Event Chain SDK.
package manager

import (
	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// ChainBuilder assembles a chain fluently. Methods record the first
// error and keep returning the builder, so call sites stay linear and
// check a single error at Build.
//
// Example usage:
//
//	chain, err := manager.NewChainBuilder("ingress").
//	    WithDisregard(auditor.Recorder("ingress")).
//	    Add(filters.NewValidationFilter(cfg)).
//	    Add(filters.NewLoggingFilter("ingress", false)).
//	    Build()
type ChainBuilder struct {
	name      string
	disregard core.DisregardFunc
	filters   []core.Filter
	err       error
}

// NewChainBuilder creates a builder for a chain with the given name.
func NewChainBuilder(name string) *ChainBuilder {
	return &ChainBuilder{name: name}
}

// WithDisregard binds the disregard callback. A nil callback records
// InvalidArgument, surfaced at Build.
func (b *ChainBuilder) WithDisregard(onDisregard core.DisregardFunc) *ChainBuilder {
	if b.err != nil {
		return b
	}
	if onDisregard == nil {
		b.err = types.NewChainError(types.InvalidArgument, "disregard callback must not be nil")
		return b
	}
	b.disregard = onDisregard
	return b
}

// Add appends a filter to the chain under construction.
func (b *ChainBuilder) Add(filter core.Filter) *ChainBuilder {
	if b.err != nil {
		return b
	}
	if filter == nil {
		b.err = types.NewChainError(types.InvalidArgument, "filter must not be nil")
		return b
	}
	b.filters = append(b.filters, filter)
	return b
}

// AddFunc appends a function-based filter.
func (b *ChainBuilder) AddFunc(fn core.FilterFunc) *ChainBuilder {
	if fn == nil {
		if b.err == nil {
			b.err = types.NewChainError(types.InvalidArgument, "filter func must not be nil")
		}
		return b
	}
	return b.Add(fn)
}

// Name returns the name the chain will be registered under.
func (b *ChainBuilder) Name() string {
	return b.name
}

// Build constructs the chain. The first error recorded by any builder
// method is returned here and nothing is built.
func (b *ChainBuilder) Build() (*core.FilterChain, error) {
	if b.err != nil {
		return nil, b.err
	}

	var chain *core.FilterChain
	if b.disregard != nil {
		built, err := core.NewFilterChainFunc(b.disregard)
		if err != nil {
			return nil, err
		}
		chain = built
	} else {
		chain = core.NewFilterChain()
	}

	if err := chain.AddAll(b.filters); err != nil {
		return nil, err
	}
	return chain, nil
}

// BuildInto builds the chain and registers it with the registry under
// the builder's name.
func (b *ChainBuilder) BuildInto(registry *Registry) (*core.FilterChain, error) {
	chain, err := b.Build()
	if err != nil {
		return nil, err
	}
	if _, err := registry.RegisterChain(b.name, chain); err != nil {
		return nil, err
	}
	return chain, nil
}
