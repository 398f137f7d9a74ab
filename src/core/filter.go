// Package core provides the chain controller and filter contracts
// for the Event Chain SDK.
package core

import "github.com/GopherSecurity/eventchain/src/types"

// Filter is a single processing stage in a chain. The chain invokes
// Process synchronously with the event and a reference to itself; the
// filter has full authority to call chain.Next (with the same or a
// transformed event) or chain.Disregard zero or more times during its
// own execution, though typically exactly once.
//
// A filter that does neither simply ends the traversal at its own link:
// the chain stays in use until someone calls Next or Disregard again.
//
// Filters should be:
//   - Safe to register in more than one chain when stateless
//   - Cheap in Process, since the whole traversal runs on one stack
//   - Honest about aborts: report the reason through chain.Disregard
//
// Example implementation:
//
//	type UppercaseFilter struct{}
//
//	func (f *UppercaseFilter) Process(event *types.Event, chain *core.FilterChain) {
//	    if s, ok := event.Payload.(string); ok {
//	        event.Payload = strings.ToUpper(s)
//	    }
//	    chain.Next(event)
//	}
type Filter interface {
	// Process handles one event. The chain reference is the filter's
	// handle for continuing (Next) or aborting (Disregard) the traversal.
	Process(event *types.Event, chain *FilterChain)
}

// NamedFilter is an optional extension for filters that identify
// themselves. The built-in filters implement it via FilterBase; the
// manager uses it for logging and registry bookkeeping.
type NamedFilter interface {
	Filter

	// Name returns the unique name of this filter instance.
	Name() string

	// Type returns the category of this filter, e.g. "monitoring".
	Type() string
}
