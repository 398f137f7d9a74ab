// Package filters provides built-in filters for the Event Chain SDK.
package filters

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// DedupFilter drops events whose ID has already been seen within a TTL
// window. First occurrences are forwarded and remembered; duplicates are
// disregarded. Entries expire after the TTL and the event ID is accepted
// again.
//
// Expired entries are swept lazily on each Process call, so the window
// map stays bounded by the event rate times the TTL.
type DedupFilter struct {
	core.FilterBase

	ttl  time.Duration
	seen map[uuid.UUID]time.Time
	mu   sync.Mutex
}

// NewDedupFilter creates a dedup filter with the given TTL window.
// A non-positive TTL keeps entries forever.
func NewDedupFilter(ttl time.Duration) *DedupFilter {
	return &DedupFilter{
		FilterBase: core.NewFilterBase("dedup", "routing"),
		ttl:        ttl,
		seen:       make(map[uuid.UUID]time.Time),
	}
}

// Process forwards first occurrences and disregards duplicates.
func (f *DedupFilter) Process(event *types.Event, chain *core.FilterChain) {
	f.RecordProcessed()

	if f.isDuplicate(event.ID) {
		f.RecordDisregarded()
		chain.Disregard(fmt.Sprintf("dedup: duplicate event %s", event.ID))
		return
	}

	f.RecordForwarded()
	chain.Next(event)
}

// SeenCount returns the number of live entries in the window.
func (f *DedupFilter) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweepLocked()
	return len(f.seen)
}

// isDuplicate sweeps expired entries, then checks and records the ID.
func (f *DedupFilter) isDuplicate(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sweepLocked()
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = time.Now()
	return false
}

// sweepLocked removes entries older than the TTL. Callers hold mu.
func (f *DedupFilter) sweepLocked() {
	if f.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-f.ttl)
	for id, at := range f.seen {
		if at.Before(cutoff) {
			delete(f.seen, id)
		}
	}
}
