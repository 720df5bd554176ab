package health

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "poolcare"

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern",
		},
		[]string{"method", "path", "status"},
	)

	registerOnce sync.Once
)

// registerMetrics adds the HTTP collectors plus gauges read on every scrape.
// Repeated calls are no-ops so several routers can share the default registry.
func registerMetrics(subscribers subscriberCounter, pool poolStats) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpDuration,
			HttpRequests,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "realtime",
				Name:      "subscribers",
				Help:      "Connected schedule websocket subscribers",
			}, func() float64 { return float64(subscribers.Clients()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "database",
				Name:      "open_connections",
				Help:      "Open connections in the database pool",
			}, func() float64 { return float64(pool.OpenConnections()) }),
		)
	})
}
