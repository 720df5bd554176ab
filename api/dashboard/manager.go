package dashboard

import (
	"net/http"
	"poolcare_server/api/middleware"
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DashboardRoutesManager serves the signed-in customer's own data. Every
// lookup is scoped to the caller, so another customer's id answers 404.
type DashboardRoutesManager struct {
	logger          *gecho.Logger
	scheduleService *services.ScheduleService
	jobService      *services.JobService
	invoiceService  *services.InvoiceService
	paymentService  *services.PaymentService
	quoteService    *services.QuoteService
	poolDNAService  *services.PoolDNAService
	addressService  *services.AddressService
	mw              *middleware.Middleware
}

func NewDashboardRoutesManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *DashboardRoutesManager {
	return &DashboardRoutesManager{
		logger:          logger,
		scheduleService: sm.ScheduleService,
		jobService:      sm.JobService,
		invoiceService:  sm.InvoiceService,
		paymentService:  sm.PaymentService,
		quoteService:    sm.QuoteService,
		poolDNAService:  sm.PoolDNAService,
		addressService:  sm.AddressService,
		mw:              mw,
	}
}

func (drm *DashboardRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(drm.mw.RequireSession)

		r.Get("/schedules", drm.ListSchedules)
		r.Get("/schedules/{id}", drm.GetSchedule)
		r.Get("/jobs", drm.ListJobs)
		r.Get("/invoices", drm.ListInvoices)
		r.Get("/invoices/{id}", drm.GetInvoice)
		r.Get("/quotes", drm.ListQuotes)
		r.Get("/quotes/{id}", drm.GetQuote)
		r.Get("/pool-dna", drm.GetPoolDNA)
		r.Get("/addresses", drm.ListAddresses)

		// Protected routes behind CSRF
		r.Group(func(r chi.Router) {
			r.Use(drm.mw.CSRFMiddleware())
			r.Post("/invoices/{id}/pay", drm.PayInvoice)
			r.Post("/quotes/{id}/accept", drm.AcceptQuote)
			r.Post("/quotes/{id}/decline", drm.DeclineQuote)
			r.Put("/pool-dna", drm.SavePoolDNA)
			r.Post("/addresses", drm.CreateAddress)
			r.Put("/addresses/{id}", drm.UpdateAddress)
			r.Delete("/addresses/{id}", drm.DeleteAddress)
		})
	})
}

// caller returns the signed-in user's id. RequireSession guarantees claims.
func caller(r *http.Request) uuid.UUID {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	return claims.Sub
}
