// Package types provides core type definitions for the Event Chain SDK.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Event is the unit of work routed through a filter chain.
// The payload is opaque to the chain itself; filters interpret it.
//
// Events are passed by pointer so filters can forward the same instance,
// or use Clone to derive a transformed copy before calling chain.Next.
type Event struct {
	// ID uniquely identifies this event across its lifetime.
	ID uuid.UUID

	// Name is the event kind, used for routing and logging.
	Name string

	// Payload carries the event data. Opaque to the chain.
	Payload interface{}

	// Metadata carries cross-filter annotations. Filters may read and
	// write entries to communicate along the chain.
	Metadata map[string]interface{}

	// Timestamp records when the event was created.
	Timestamp time.Time
}

// NewEvent creates an event with a fresh ID and the current timestamp.
func NewEvent(name string, payload interface{}) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Payload:   payload,
		Metadata:  make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// WithMetadata sets a metadata entry and returns the event for chaining.
func (e *Event) WithMetadata(key string, value interface{}) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Clone returns a copy of the event with its own metadata map.
// The ID, name, payload, and timestamp are carried over; the payload is
// shared, not deep-copied. Filters that transform an event before
// forwarding should clone first so upstream frames keep their view.
func (e *Event) Clone() *Event {
	clone := &Event{
		ID:        e.ID,
		Name:      e.Name,
		Payload:   e.Payload,
		Timestamp: e.Timestamp,
	}
	if e.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(e.Metadata))
		for k, v := range e.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
