// Package filters provides built-in filters for the Event Chain SDK.
package filters

import (
	"fmt"
	"sync"
	"time"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// RateLimitFilter throttles events with a token bucket. Each event
// consumes one token; events arriving with the bucket empty are
// disregarded. Tokens refill at a constant rate up to the burst capacity,
// so short bursts are absorbed while the average rate holds.
//
// Uses monotonic time for refill accounting to avoid clock skew issues.
type RateLimitFilter struct {
	core.FilterBase

	capacity   float64   // maximum tokens (burst size)
	tokens     float64   // currently available tokens
	refillRate float64   // tokens added per second
	lastRefill time.Time // last refill instant

	mu sync.Mutex
}

// NewRateLimitFilter creates a rate limit filter.
//
// Parameters:
//   - ratePerSec: average events allowed per second
//   - burst: maximum burst size (bucket capacity)
//
// Example:
//
//	// 100 events/sec average, bursts up to 200
//	filter := filters.NewRateLimitFilter(100, 200)
func NewRateLimitFilter(ratePerSec float64, burst int) *RateLimitFilter {
	return &RateLimitFilter{
		FilterBase: core.NewFilterBase("ratelimit", "rate-limiting"),
		capacity:   float64(burst),
		tokens:     float64(burst), // start full
		refillRate: ratePerSec,
		lastRefill: time.Now(),
	}
}

// Process consumes a token and forwards, or disregards when the bucket
// is empty.
func (f *RateLimitFilter) Process(event *types.Event, chain *core.FilterChain) {
	f.RecordProcessed()

	if !f.take() {
		f.RecordDisregarded()
		chain.Disregard(fmt.Sprintf("ratelimit: event %s rejected, bucket empty", event.ID))
		return
	}

	f.RecordForwarded()
	chain.Next(event)
}

// Remaining returns the tokens currently available, after refill.
func (f *RateLimitFilter) Remaining() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refillLocked()
	return f.tokens
}

// take refills, then attempts to consume one token.
func (f *RateLimitFilter) take() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refillLocked()
	if f.tokens >= 1 {
		f.tokens--
		return true
	}
	return false
}

// refillLocked adds tokens for the time elapsed since the last refill,
// capped at capacity. Callers hold mu.
func (f *RateLimitFilter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(f.lastRefill).Seconds()
	f.lastRefill = now

	f.tokens += elapsed * f.refillRate
	if f.tokens > f.capacity {
		f.tokens = f.capacity
	}
}
