package api

import (
	"poolcare_server/api/admin"
	"poolcare_server/api/auth"
	"poolcare_server/api/catalog"
	"poolcare_server/api/dashboard"
	"poolcare_server/api/debug"
	"poolcare_server/api/health"
	"poolcare_server/api/inquiries"
	"poolcare_server/api/live"
	"poolcare_server/api/middleware"
	"poolcare_server/api/webhooks"
	"poolcare_server/realtime"
	"poolcare_server/services"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routesRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type routerManager struct {
	routes []routesRegistrar
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	hub *realtime.Hub,
	mw *middleware.Middleware,
	production bool,
) *routerManager {
	return &routerManager{
		routes: []routesRegistrar{
			health.NewHealthRoutesManager(sm.HealthService, hub),
			auth.NewAuthRoutesManager(logger, sm.AuthService, sm.RoleService, cfg, mw),
			catalog.NewCatalogRoutesManager(logger, sm.CategoryService, sm.ProductService, sm.OfferingService, sm.BundleService),
			inquiries.NewInquiryRoutesManager(logger, sm.ContactService, sm.QuoteService, mw),
			dashboard.NewDashboardRoutesManager(logger, sm, mw),
			admin.NewAdminRoutesManager(logger, cfg, sm, mw),
			live.NewLiveRoutesManager(logger, hub, mw),
			webhooks.NewWebhookRoutesManager(logger, sm.PaymentService),
			debug.NewDebugRoutesManager(logger, sm.CacheService, production),
		},
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	for _, routes := range rm.routes {
		routes.RegisterRoutes(r)
	}
}
