// Package core provides the chain controller and filter contracts
// for the Event Chain SDK.
package core

import "github.com/GopherSecurity/eventchain/src/types"

// FilterFunc is a function type that implements the Filter interface.
// This allows regular functions to be used as filters without creating
// a full struct implementation.
//
// Example usage:
//
//	forward := core.FilterFunc(func(event *types.Event, chain *core.FilterChain) {
//	    chain.Next(event)
//	})
//	chain.Add(forward)
type FilterFunc func(event *types.Event, chain *FilterChain)

// Process calls the function itself, implementing the Filter interface.
func (f FilterFunc) Process(event *types.Event, chain *FilterChain) {
	f(event, chain)
}

// WrapFilterFunc creates a named filter from a function, giving
// function-based filters a custom name and type for registry and
// logging purposes.
//
// Example:
//
//	filter := core.WrapFilterFunc("uppercase", "transformation",
//	    func(event *types.Event, chain *core.FilterChain) {
//	        event.Payload = strings.ToUpper(event.Payload.(string))
//	        chain.Next(event)
//	    })
func WrapFilterFunc(name, filterType string, fn FilterFunc) NamedFilter {
	return &wrappedFilterFunc{
		FilterBase: NewFilterBase(name, filterType),
		fn:         fn,
	}
}

// wrappedFilterFunc wraps a FilterFunc with a FilterBase for metadata.
type wrappedFilterFunc struct {
	FilterBase
	fn FilterFunc
}

// Process delegates to the wrapped function and updates statistics.
func (w *wrappedFilterFunc) Process(event *types.Event, chain *FilterChain) {
	w.RecordProcessed()
	w.fn(event, chain)
}
