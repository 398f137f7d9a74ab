// Package core provides the chain controller and filter contracts
// for the Event Chain SDK.
package core

import (
	"sync"

	"github.com/GopherSecurity/eventchain/src/types"
)

// DisregardFunc is the callback invoked when a filter aborts a traversal.
// It receives the diagnostic message the filter passed to Disregard.
type DisregardFunc func(message string)

// FilterChain routes a single event through an ordered sequence of filters,
// one filter per Next call. Each filter receives the event together with a
// reference to the chain and decides whether to forward the event to the
// next filter (chain.Next) or to abort the remainder (chain.Disregard).
//
// Traversal is re-entrant by design: a filter calls back into Next or
// Disregard during its own Process call, so the call stack grows by one
// frame per link traversed in a single logical routing pass.
//
// A chain holds exactly one traversal at a time. The cursor is the only
// traversal state, so a second logical traversal must wait until the chain
// is idle again. Structural mutations are rejected with ChainBusy while a
// traversal is in progress.
//
// Example usage:
//
//	chain, _ := core.NewFilterChainFunc(func(msg string) {
//	    log.Printf("disregarded: %s", msg)
//	})
//	chain.Add(validation)
//	chain.Add(logging)
//	chain.Next(types.NewEvent("request", payload))
type FilterChain struct {
	// filters is the ordered list of filters; insertion order is
	// traversal order. Mutable only while idle.
	filters []Filter

	// cursor is the index of the next filter to dispatch, or -1 when
	// the chain is idle. This is the sole traversal state.
	cursor int

	// onDisregard is the fixed callback fired by Disregard. Never nil;
	// the plain constructor installs a no-op.
	onDisregard DisregardFunc

	// mu guards cursor and filters. It is never held while a filter's
	// Process or the disregard callback runs: both legitimately call
	// back into the chain on the same goroutine. Holding mu only around
	// the state transition turns cross-goroutine misuse into a ChainBusy
	// error instead of a data race.
	mu sync.Mutex
}

// NewFilterChain creates an empty chain with a no-op disregard callback.
func NewFilterChain() *FilterChain {
	return &FilterChain{
		cursor:      -1,
		onDisregard: func(string) {},
	}
}

// NewFilterChainFunc creates an empty chain bound to the given disregard
// callback. The callback is fixed for the lifetime of the chain and is
// invoked with the diagnostic message whenever a filter disregards.
//
// Returns:
//   - *FilterChain: the new chain
//   - error: InvalidArgument if onDisregard is nil
func NewFilterChainFunc(onDisregard DisregardFunc) (*FilterChain, error) {
	if onDisregard == nil {
		return nil, types.NewChainError(types.InvalidArgument, "disregard callback must not be nil")
	}
	return &FilterChain{
		cursor:      -1,
		onDisregard: onDisregard,
	}, nil
}

// Add appends a filter to the end of the chain.
//
// Returns:
//   - error: ChainBusy if a traversal is in progress,
//     InvalidArgument if filter is nil
func (fc *FilterChain) Add(filter Filter) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err := fc.checkIdleLocked(); err != nil {
		return err
	}
	if filter == nil {
		return types.NewChainError(types.InvalidArgument, "filter must not be nil")
	}

	fc.filters = append(fc.filters, filter)
	return nil
}

// AddAll appends a batch of filters, preserving their relative order.
// The append is atomic: the batch is checked up front and either rejected
// wholesale or appended wholesale, never partially.
//
// Returns:
//   - error: ChainBusy if a traversal is in progress,
//     InvalidArgument if any filter in the batch is nil
func (fc *FilterChain) AddAll(filters []Filter) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err := fc.checkIdleLocked(); err != nil {
		return err
	}
	for i, filter := range filters {
		if filter == nil {
			return types.Errorf(types.InvalidArgument, "filter at index %d is nil", i)
		}
	}

	fc.filters = append(fc.filters, filters...)
	return nil
}

// AddAt inserts a filter at the given position, shifting the filter at
// that position and everything after it one slot to the right.
// Position Size() is a valid append; position 0 is a prepend.
//
// The busy check runs before the bounds check: a position is meaningless
// on a chain that cannot be mutated.
//
// Returns:
//   - error: ChainBusy if a traversal is in progress,
//     IndexOutOfRange if position < 0 or position > Size(),
//     InvalidArgument if filter is nil
func (fc *FilterChain) AddAt(position int, filter Filter) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err := fc.checkIdleLocked(); err != nil {
		return err
	}
	if position < 0 || position > len(fc.filters) {
		return types.Errorf(types.IndexOutOfRange, "position %d outside [0, %d]", position, len(fc.filters))
	}
	if filter == nil {
		return types.NewChainError(types.InvalidArgument, "filter must not be nil")
	}

	fc.filters = append(fc.filters, nil)
	copy(fc.filters[position+1:], fc.filters[position:])
	fc.filters[position] = filter
	return nil
}

// Next routes the event to the next filter in the chain.
//
// If the chain is idle, a new traversal begins at the first filter. If the
// cursor has a remaining filter, the cursor advances past it and the filter's
// Process is invoked synchronously with the event and this chain; the filter
// may call Next (with the same or a transformed event) or Disregard before
// returning. If the cursor is exhausted, the chain returns to idle without
// dispatching and without firing the disregard callback: an exhausted chain
// is a normal success terminus.
//
// Next never fails from the chain's point of view; errors inside filters are
// the filters' own concern and are reported, if at all, via Disregard.
func (fc *FilterChain) Next(event *types.Event) {
	fc.mu.Lock()
	if fc.cursor < 0 {
		fc.cursor = 0
	}
	if fc.cursor >= len(fc.filters) {
		fc.cursor = -1
		fc.mu.Unlock()
		return
	}
	filter := fc.filters[fc.cursor]
	fc.cursor++
	fc.mu.Unlock()

	filter.Process(event, fc)
}

// Disregard aborts the current traversal and fires the bound callback with
// the given message, exactly once per call. The chain is idle afterwards.
//
// The callback fires even when the chain is already idle; Disregard is the
// reporting path and is deliberately not guarded as a no-op.
func (fc *FilterChain) Disregard(message string) {
	fc.mu.Lock()
	fc.cursor = -1
	callback := fc.onDisregard
	fc.mu.Unlock()

	callback(message)
}

// InUse reports whether a traversal is in progress: Next has been called
// and the chain has not yet been exhausted or disregarded.
func (fc *FilterChain) InUse() bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.cursor >= 0
}

// Size returns the number of filters in the chain.
func (fc *FilterChain) Size() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.filters)
}

// State returns the chain's traversal state.
func (fc *FilterChain) State() types.ChainState {
	if fc.InUse() {
		return types.InUse
	}
	return types.Idle
}

// checkIdleLocked rejects structural mutation while a traversal is in
// progress. Callers hold mu.
func (fc *FilterChain) checkIdleLocked() error {
	if fc.cursor >= 0 {
		return types.NewChainError(types.ChainBusy,
			"chain is in use; disregard first or wait until the traversal finishes")
	}
	return nil
}
