package webhooks

import (
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type WebhookRoutesManager struct {
	logger         *gecho.Logger
	paymentService *services.PaymentService
}

func NewWebhookRoutesManager(logger *gecho.Logger, paymentService *services.PaymentService) *WebhookRoutesManager {
	return &WebhookRoutesManager{logger: logger, paymentService: paymentService}
}

// RegisterRoutes mounts the provider callbacks. They are authenticated by
// signature, not by session or CSRF token.
func (wrm *WebhookRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/stripe", wrm.Stripe)
}
