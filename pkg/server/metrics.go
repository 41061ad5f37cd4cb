package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for the session server.
type metrics struct {
	specsApplied   prometheus.Counter
	specNodes      prometheus.Histogram
	fallbackNodes  prometheus.Counter
	stateSets      prometheus.Counter
	framesTotal    *prometheus.CounterVec
	frameErrors    *prometheus.CounterVec
	activeSessions prometheus.Gauge
	applyDuration  prometheus.Histogram
}

// globalMetrics is the singleton metrics instance, created on first use.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

// initMetrics registers the server metrics with the default registerer.
func initMetrics() *metrics {
	factory := promauto.With(prometheus.DefaultRegisterer)
	ns := "agentui"

	return &metrics{
		specsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "specs_applied_total",
			Help:      "Total number of spec documents applied",
		}),
		specNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "spec_nodes",
			Help:      "Node count per applied spec document",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		fallbackNodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "fallback_nodes_total",
			Help:      "Total number of fallback nodes substituted during rendering",
		}),
		stateSets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "state_sets_total",
			Help:      "Total number of state deltas applied",
		}),
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_total",
			Help:      "Total frames received by type",
		}, []string{"type"}),
		frameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frame_errors_total",
			Help:      "Total frame handling errors by kind",
		}, []string{"kind"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "active_sessions",
			Help:      "Number of active producer sessions",
		}),
		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "spec_apply_duration_seconds",
			Help:      "Spec decode and render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// getMetrics returns the singleton metrics, initializing on first call.
func getMetrics() *metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = initMetrics()
	})
	return globalMetrics
}

func recordSpecApplied(nodes, fallbacks int, seconds float64) {
	m := getMetrics()
	m.specsApplied.Inc()
	m.specNodes.Observe(float64(nodes))
	m.fallbackNodes.Add(float64(fallbacks))
	m.applyDuration.Observe(seconds)
}

func recordStateSets(count int) {
	getMetrics().stateSets.Add(float64(count))
}

func recordFrame(frameType string) {
	getMetrics().framesTotal.WithLabelValues(frameType).Inc()
}

func recordFrameError(kind string) {
	getMetrics().frameErrors.WithLabelValues(kind).Inc()
}

func recordSessionOpen() {
	getMetrics().activeSessions.Inc()
}

func recordSessionClose() {
	getMetrics().activeSessions.Dec()
}
