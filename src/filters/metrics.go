// Package filters provides built-in filters for the Event Chain SDK.
package filters

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// MetricsFilter exports Prometheus metrics for the chain it sits in.
// Placed first in a chain, the latency histogram covers the whole
// remainder of the traversal, since Next returns only after every
// downstream filter has run.
//
// Metrics:
//   - eventchain_events_total: events entering the filter, by chain and event name
//   - eventchain_chain_duration_seconds: downstream traversal latency, by chain
type MetricsFilter struct {
	core.FilterBase

	chainName     string
	eventsTotal   *prometheus.CounterVec
	chainDuration *prometheus.HistogramVec
}

// NewMetricsFilter creates a metrics filter and registers its collectors
// with the provided registerer. If registerer is nil, the default
// Prometheus registerer is used.
//
// Returns:
//   - *MetricsFilter: the filter
//   - error: registration failure, e.g. duplicate collectors
func NewMetricsFilter(chainName string, registerer prometheus.Registerer) (*MetricsFilter, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	f := &MetricsFilter{
		FilterBase: core.NewFilterBase("metrics", "monitoring"),
		chainName:  chainName,
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventchain",
				Name:      "events_total",
				Help:      "Total number of events entering the chain",
			},
			[]string{"chain", "event"},
		),
		chainDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "eventchain",
				Name:      "chain_duration_seconds",
				Help:      "Latency of the chain traversal downstream of this filter",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"chain"},
		),
	}

	var registered []prometheus.Collector
	for _, collector := range []prometheus.Collector{f.eventsTotal, f.chainDuration} {
		if err := registerer.Register(collector); err != nil {
			// Roll back so a failed construction leaves no orphaned
			// collectors on the caller's registerer.
			for _, c := range registered {
				registerer.Unregister(c)
			}
			return nil, err
		}
		registered = append(registered, collector)
	}
	return f, nil
}

// Process counts the event and times the downstream traversal.
func (f *MetricsFilter) Process(event *types.Event, chain *core.FilterChain) {
	f.RecordProcessed()
	f.eventsTotal.WithLabelValues(f.chainName, event.Name).Inc()

	start := time.Now()
	f.RecordForwarded()
	chain.Next(event)
	f.chainDuration.WithLabelValues(f.chainName).Observe(time.Since(start).Seconds())
}
