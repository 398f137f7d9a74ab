// Package types provides core type definitions for the Event Chain SDK.
package types

import "time"

// FilterStats tracks per-filter processing metrics.
type FilterStats struct {
	// ProcessedCount is the number of events this filter has received.
	ProcessedCount uint64 `json:"processed_count"`

	// ForwardedCount is the number of events this filter passed on.
	ForwardedCount uint64 `json:"forwarded_count"`

	// DisregardedCount is the number of events this filter aborted.
	DisregardedCount uint64 `json:"disregarded_count"`

	// LastProcessed is when this filter last received an event.
	LastProcessed time.Time `json:"last_processed"`
}
