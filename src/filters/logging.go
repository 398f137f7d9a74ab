// Package filters provides built-in filters for the Event Chain SDK.
package filters

import (
	"fmt"
	"log"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// LoggingFilter logs events passing through the chain and forwards them
// unchanged. Useful for debugging and monitoring chain traffic.
type LoggingFilter struct {
	core.FilterBase

	logPrefix  string
	logPayload bool
	maxLogSize int
	logger     *log.Logger
}

// NewLoggingFilter creates a logging filter. If logPayload is true, the
// payload's string form is logged, truncated to 1KB.
func NewLoggingFilter(logPrefix string, logPayload bool) *LoggingFilter {
	return &LoggingFilter{
		FilterBase: core.NewFilterBase("logging", "monitoring"),
		logPrefix:  logPrefix,
		logPayload: logPayload,
		maxLogSize: 1024,
		logger:     log.Default(),
	}
}

// SetLogger redirects the filter's output, primarily for tests.
func (f *LoggingFilter) SetLogger(logger *log.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Process logs the event and passes it to the next filter.
func (f *LoggingFilter) Process(event *types.Event, chain *core.FilterChain) {
	f.RecordProcessed()

	f.logger.Printf("[%s] event %s name=%q", f.logPrefix, event.ID, event.Name)
	if f.logPayload && event.Payload != nil {
		payload := fmt.Sprintf("%v", event.Payload)
		if len(payload) > f.maxLogSize {
			payload = payload[:f.maxLogSize] + "..."
		}
		f.logger.Printf("[%s] event %s payload=%s", f.logPrefix, event.ID, payload)
	}

	f.RecordForwarded()
	chain.Next(event)
}
