package health

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type subscriberCounter interface {
	Clients() int
}

type poolStats interface {
	OpenConnections() int
}

type HealthRoutesManager struct {
	healthService healthChecker
	subscribers   subscriberCounter
}

func NewHealthRoutesManager(healthService healthChecker, subscribers subscriberCounter) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
		subscribers:   subscribers,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	registerMetrics(hrm.subscribers, hrm.healthService)

	r.Route("/health", func(r chi.Router) {
		r.Get("/server", hrm.GetServerHealth)
		r.Get("/database", hrm.GetDatabaseHealth)
		r.Get("/cache", hrm.GetCacheHealth)
		r.Get("/realtime", hrm.GetRealtimeHealth)
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
