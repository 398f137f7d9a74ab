// Package filters provides built-in filters for the Event Chain SDK.
package filters

import (
	"fmt"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// ValidationConfig controls what the ValidationFilter checks.
type ValidationConfig struct {
	// RequireName rejects events with an empty Name.
	RequireName bool

	// MaxPayloadBytes rejects string or []byte payloads larger than this.
	// Zero disables the size check. Non-byte payloads are not measured.
	MaxPayloadBytes int

	// RequiredMetadata lists metadata keys every event must carry.
	RequiredMetadata []string
}

// ValidationFilter checks events against a ValidationConfig. Valid events
// are forwarded; invalid events are disregarded with a diagnostic naming
// the failed check.
type ValidationFilter struct {
	core.FilterBase

	config ValidationConfig
}

// NewValidationFilter creates a validation filter with the given config.
func NewValidationFilter(config ValidationConfig) *ValidationFilter {
	return &ValidationFilter{
		FilterBase: core.NewFilterBase("validation", "security"),
		config:     config,
	}
}

// Process validates the event, then forwards or disregards.
func (f *ValidationFilter) Process(event *types.Event, chain *core.FilterChain) {
	f.RecordProcessed()

	if reason := f.validate(event); reason != "" {
		f.RecordDisregarded()
		chain.Disregard(reason)
		return
	}

	f.RecordForwarded()
	chain.Next(event)
}

// validate returns an empty string for a valid event, otherwise the
// reason it failed.
func (f *ValidationFilter) validate(event *types.Event) string {
	if f.config.RequireName && event.Name == "" {
		return "validation: event has no name"
	}

	if f.config.MaxPayloadBytes > 0 {
		size := -1
		switch p := event.Payload.(type) {
		case string:
			size = len(p)
		case []byte:
			size = len(p)
		}
		if size > f.config.MaxPayloadBytes {
			return fmt.Sprintf("validation: payload size %d exceeds limit %d", size, f.config.MaxPayloadBytes)
		}
	}

	for _, key := range f.config.RequiredMetadata {
		if _, ok := event.Metadata[key]; !ok {
			return fmt.Sprintf("validation: missing required metadata %q", key)
		}
	}

	return ""
}
