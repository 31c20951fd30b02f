// Package telemetry exports grid load events as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// Metrics holds the grid collectors. It implements grid.Observer.
type Metrics struct {
	FetchesStarted  prometheus.Counter
	FetchErrors     prometheus.Counter
	FetchDuration   prometheus.Histogram
	FetchesInFlight prometheus.Gauge
	CacheHits       prometheus.Counter
	Discarded       prometheus.Counter
	BreakerState    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridpager_fetches_total",
			Help: "Total number of page fetches sent to the data source",
		}),
		FetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridpager_fetch_errors_total",
			Help: "Total number of page fetches that failed",
		}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpager_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		}),
		FetchesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridpager_fetches_in_flight",
			Help: "Number of page fetches currently running",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridpager_cache_hits_total",
			Help: "Total number of page loads served from the page cache",
		}),
		Discarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridpager_superseded_total",
			Help: "Total number of responses discarded because a newer page load was issued",
		}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gridpager_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),
	}
}

// FetchStarted implements grid.Observer.
func (m *Metrics) FetchStarted(int) {
	m.FetchesStarted.Inc()
	m.FetchesInFlight.Inc()
}

// FetchFinished implements grid.Observer.
func (m *Metrics) FetchFinished(_ int, elapsed time.Duration, err error) {
	m.FetchesInFlight.Dec()
	m.FetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.FetchErrors.Inc()
	}
}

// CacheHit implements grid.Observer.
func (m *Metrics) CacheHit(int) {
	m.CacheHits.Inc()
}

// Superseded implements grid.Observer.
func (m *Metrics) Superseded(int) {
	m.Discarded.Inc()
}

// BreakerStateChange records a circuit breaker transition. It matches
// source.BreakerConfig.OnStateChange.
func (m *Metrics) BreakerStateChange(name string, _, to gobreaker.State) {
	m.BreakerState.WithLabelValues(name).Set(breakerValue(to))
}

func breakerValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
