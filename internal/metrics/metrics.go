package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// PlanComputations counts tour calculations by outcome
	PlanComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_computations_total", Help: "Tour plan computations by outcome."},
		[]string{"outcome"},
	)
	// PlanDuration tracks end-to-end tour calculation time
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "plan_computation_duration_seconds", Help: "Tour plan computation duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60}},
	)

	// WebhookDeliveries counts webhook delivery outcomes by event type and status
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PlanComputations)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(WebhookDeliveries)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// RegisterCacheStats exposes path-cache gauges backed by the stats
// function, which must be safe for concurrent use.
func RegisterCacheStats(stats func() (size, hits, misses int64)) {
	cacheOnce.Do(func() {
		Registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: "path_cache_entries", Help: "Entries currently held by the shortest-path cache."},
			func() float64 { size, _, _ := stats(); return float64(size) },
		))
		Registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: "path_cache_hits_total", Help: "Cumulative shortest-path cache hits."},
			func() float64 { _, hits, _ := stats(); return float64(hits) },
		))
		Registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: "path_cache_misses_total", Help: "Cumulative shortest-path cache misses."},
			func() float64 { _, _, misses := stats(); return float64(misses) },
		))
	})
}

var (
	regOnce   sync.Once
	cacheOnce sync.Once
)
