package webhooks

import (
	"io"
	"net/http"
	"poolcare_server/handling"

	"github.com/MonkyMars/gecho"
)

// Stripe event payloads stay well below this.
const maxPayloadBytes = 65536

func (wrm *WebhookRoutesManager) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		wrm.logger.Warn("Failed to read webhook body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid payload"), gecho.Send())
		return
	}

	// a non-2xx answer makes Stripe retry the delivery
	if err := wrm.paymentService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		handling.RespondError(err, "Failed to process webhook", wrm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]bool{"received": true}), gecho.Send())
}
