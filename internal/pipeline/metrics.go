package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the pipeline and cache collectors
type Metrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	Runs             *prometheus.CounterVec
	Duration         prometheus.Histogram
	FilterRequests   *prometheus.CounterVec
	SnapshotRows     prometheus.Gauge
	CacheInvalidated prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cordex",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Snapshot lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cordex",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Snapshot lookups that loaded the dataset.",
		}),
		CacheInvalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cordex",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache entries dropped by Invalidate or the file watcher.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cordex",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cordex",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Time to load and analyze the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SnapshotRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cordex",
			Subsystem: "pipeline",
			Name:      "snapshot_rows",
			Help:      "Row count of the most recent snapshot.",
		}),
		FilterRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cordex",
			Subsystem: "filter",
			Name:      "requests_total",
			Help:      "Year range filter requests by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.CacheHits, m.CacheMisses, m.CacheInvalidated, m.Runs, m.Duration, m.SnapshotRows, m.FilterRequests)
	}
	return m
}
