package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"

	FetchSuccess = "success"
	FetchFailure = "failure"
)

type RateMetrics struct {
	CacheRequestsTotal   *prometheus.CounterVec
	UpstreamFetchesTotal *prometheus.CounterVec
	UpstreamFetchSeconds *prometheus.HistogramVec
	CacheEntries         prometheus.Gauge
	SnapshotErrorsTotal  *prometheus.CounterVec
}

// NewRateMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)

	return &RateMetrics{
		CacheRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_requests_total",
				Help: "Rate lookups by cache outcome",
			},
			[]string{"base", "result"},
		),

		UpstreamFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_upstream_fetches_total",
				Help: "Requests to the upstream rate source by outcome",
			},
			[]string{"base", "outcome"},
		),

		UpstreamFetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_upstream_fetch_duration_seconds",
				Help:    "Upstream rate fetch latency",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms .. 12.8s
			},
			[]string{"outcome"},
		),

		CacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "rate_cache_entries",
				Help: "Base currencies currently held in the rate cache",
			},
		),

		SnapshotErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_snapshot_errors_total",
				Help: "Failed snapshot store/load operations",
			},
			[]string{"op"},
		),
	}
}

func (m *RateMetrics) RecordCache(base, result string) {
	m.CacheRequestsTotal.WithLabelValues(base, result).Inc()
}

func (m *RateMetrics) RecordFetch(base string, durationSeconds float64, err error) {
	outcome := FetchSuccess
	if err != nil {
		outcome = FetchFailure
	}
	m.UpstreamFetchesTotal.WithLabelValues(base, outcome).Inc()
	m.UpstreamFetchSeconds.WithLabelValues(outcome).Observe(durationSeconds)
}

func (m *RateMetrics) SetCacheEntries(n int) {
	m.CacheEntries.Set(float64(n))
}

func (m *RateMetrics) RecordSnapshotError(op string) {
	m.SnapshotErrorsTotal.WithLabelValues(op).Inc()
}
