package inquiries

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
)

func (irm *InquiryRoutesManager) SubmitContact(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ContactRequest](r)
	if err != nil {
		irm.logger.Debug("Invalid contact form", gecho.Field("error", err))
		handling.RespondBodyError(err, irm.logger, w)
		return
	}

	if _, err := irm.contactService.Submit(r.Context(), body); err != nil {
		handling.RespondError(err, "Failed to send message", irm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Thanks, we will be in touch soon"), gecho.Send())
}

func (irm *InquiryRoutesManager) RequestQuote(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.QuoteRequest](r)
	if err != nil {
		irm.logger.Debug("Invalid quote request", gecho.Field("error", err))
		handling.RespondBodyError(err, irm.logger, w)
		return
	}

	quote, err := irm.quoteService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save quote request", irm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Quote request received"),
		gecho.WithData(map[string]any{"id": quote.Id, "status": quote.Status}),
		gecho.Send(),
	)
}
