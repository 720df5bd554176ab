package debug

import (
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// DebugRoutesManager exposes cache maintenance for local development. Nothing
// is mounted in production.
type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	production   bool
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, production bool) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		production:   production,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	if drm.production {
		return
	}
	r.Route("/debug/cache", func(r chi.Router) {
		r.Post("/clear", drm.ClearCache)
		r.Post("/catalog/clear", drm.ClearCatalogCache)
		r.Get("/ratelimit", drm.RateLimitStatus)
	})
}
