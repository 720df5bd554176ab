package dashboard

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/services"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (drm *DashboardRoutesManager) ListInvoices(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	customerID := caller(r)
	result, err := drm.invoiceService.List(r.Context(), services.InvoiceListOptions{
		CustomerID: &customerID,
		Status:     tables.InvoiceStatus(r.URL.Query().Get("status")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		handling.HandleError(err, "Failed to fetch invoices", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (drm *DashboardRoutesManager) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid invoice id"), gecho.Send())
		return
	}

	customerID := caller(r)
	invoice, err := drm.invoiceService.Get(r.Context(), id, &customerID)
	if err != nil {
		handling.RespondError(err, "Failed to fetch invoice", drm.logger, w)
		return
	}

	payments, err := drm.paymentService.ListForInvoice(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch invoice", drm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"invoice":  invoice,
			"payments": payments,
		}),
		gecho.Send(),
	)
}

// PayInvoice starts a card payment and hands the client secret to the browser.
func (drm *DashboardRoutesManager) PayInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid invoice id"), gecho.Send())
		return
	}

	intent, err := drm.paymentService.CreateIntent(r.Context(), id, caller(r))
	if err != nil {
		handling.RespondError(err, "Failed to start payment", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(intent), gecho.Send())
}

func (drm *DashboardRoutesManager) ListQuotes(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	customerID := caller(r)
	result, err := drm.quoteService.List(r.Context(), services.QuoteListOptions{
		CustomerID: &customerID,
		Status:     tables.QuoteStatus(r.URL.Query().Get("status")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		handling.HandleError(err, "Failed to fetch quotes", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (drm *DashboardRoutesManager) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid quote id"), gecho.Send())
		return
	}

	customerID := caller(r)
	quote, err := drm.quoteService.Get(r.Context(), id, &customerID)
	if err != nil {
		handling.RespondError(err, "Failed to fetch quote", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(quote), gecho.Send())
}

func (drm *DashboardRoutesManager) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	drm.respondToQuote(w, r, true)
}

func (drm *DashboardRoutesManager) DeclineQuote(w http.ResponseWriter, r *http.Request) {
	drm.respondToQuote(w, r, false)
}

func (drm *DashboardRoutesManager) respondToQuote(w http.ResponseWriter, r *http.Request, accept bool) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid quote id"), gecho.Send())
		return
	}

	quote, err := drm.quoteService.Respond(r.Context(), id, caller(r), accept)
	if err != nil {
		handling.RespondError(err, "Failed to save quote", drm.logger, w)
		return
	}

	msg := "Quote declined"
	if accept {
		msg = "Quote accepted"
	}
	gecho.Success(w, gecho.WithMessage(msg), gecho.WithData(quote), gecho.Send())
}
