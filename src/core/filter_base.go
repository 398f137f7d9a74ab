// Package core provides the chain controller and filter contracts
// for the Event Chain SDK.
package core

import (
	"sync"
	"time"

	"github.com/GopherSecurity/eventchain/src/types"
)

// FilterBase provides name, type, and statistics bookkeeping for
// concrete filters. It is meant to be embedded; the embedding type
// implements Process and calls the record helpers.
//
// Example usage:
//
//	type MyFilter struct {
//	    core.FilterBase
//	}
//
//	func NewMyFilter() *MyFilter {
//	    return &MyFilter{FilterBase: core.NewFilterBase("my-filter", "custom")}
//	}
type FilterBase struct {
	// name is the unique identifier for this filter instance.
	name string

	// filterType categorizes the filter (e.g. "security", "monitoring").
	filterType string

	// stats tracks per-filter metrics. Protected by statsMu.
	stats types.FilterStats

	// statsMu protects concurrent access to stats.
	statsMu sync.RWMutex
}

// NewFilterBase creates a FilterBase with the given name and type.
func NewFilterBase(name, filterType string) FilterBase {
	return FilterBase{
		name:       name,
		filterType: filterType,
	}
}

// Name returns the unique name of this filter instance.
func (fb *FilterBase) Name() string {
	return fb.name
}

// Type returns the category of this filter.
func (fb *FilterBase) Type() string {
	return fb.filterType
}

// Stats returns a snapshot of the filter's statistics.
func (fb *FilterBase) Stats() types.FilterStats {
	fb.statsMu.RLock()
	defer fb.statsMu.RUnlock()
	return fb.stats
}

// RecordProcessed notes that an event reached this filter.
func (fb *FilterBase) RecordProcessed() {
	fb.statsMu.Lock()
	fb.stats.ProcessedCount++
	fb.stats.LastProcessed = time.Now()
	fb.statsMu.Unlock()
}

// RecordForwarded notes that this filter passed an event on.
func (fb *FilterBase) RecordForwarded() {
	fb.statsMu.Lock()
	fb.stats.ForwardedCount++
	fb.statsMu.Unlock()
}

// RecordDisregarded notes that this filter aborted a traversal.
func (fb *FilterBase) RecordDisregarded() {
	fb.statsMu.Lock()
	fb.stats.DisregardedCount++
	fb.statsMu.Unlock()
}
