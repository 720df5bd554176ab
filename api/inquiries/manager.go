package inquiries

import (
	"poolcare_server/api/middleware"
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// InquiryRoutesManager accepts the public website forms.
type InquiryRoutesManager struct {
	logger         *gecho.Logger
	contactService *services.ContactService
	quoteService   *services.QuoteService
	mw             *middleware.Middleware
}

func NewInquiryRoutesManager(
	logger *gecho.Logger,
	contactService *services.ContactService,
	quoteService *services.QuoteService,
	mw *middleware.Middleware,
) *InquiryRoutesManager {
	return &InquiryRoutesManager{
		logger:         logger,
		contactService: contactService,
		quoteService:   quoteService,
		mw:             mw,
	}
}

func (irm *InquiryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(irm.mw.CSRFMiddleware())
		r.Post("/contact", irm.SubmitContact)
		r.Post("/quotes", irm.RequestQuote)
	})
}
