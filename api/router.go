package api

import (
	"net/http"
	"poolcare_server/api/middleware"
	"poolcare_server/config"
	"poolcare_server/realtime"
	"poolcare_server/services"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App(cfg *structs.Config, sm *services.ServiceManager, hub *realtime.Hub) chi.Router {
	r := chi.NewRouter()

	// create loggers
	mwLogger := config.NewLogger(false)
	standardLogger := config.NewLogger(true)

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, sm.RoleService, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security; uploads need more room than JSON bodies, which are
	// capped again when decoded
	r.Use(mw.BodyLimit(max(cfg.Server.MaxBodyBytes, cfg.Storage.MaxUploadSize+1<<20)))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)
	r.Use(mw.RateLimitMiddleware())

	// Register all routes
	NewRouterManager(standardLogger, cfg, sm, hub, mw, config.IsProduction()).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w, gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"), gecho.Send())
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w, gecho.WithMessage("No route for "+r.URL.Path), gecho.Send())
	})

	return r
}
