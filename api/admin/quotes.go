package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/services"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListQuotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.QuoteListOptions{
		Status: tables.QuoteStatus(query.Get("status")),
		Search: strings.TrimSpace(query.Get("search")),
	}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err != nil {
		badQuery(w, err)
		return
	}
	if opts.CustomerID, err = handling.OptionalUUID(query, "customer_id"); err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.quoteService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch quotes", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "quote")
		return
	}

	quote, err := ar.quoteService.Get(r.Context(), id, nil)
	if err != nil {
		handling.RespondError(err, "Failed to fetch quote", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(quote), gecho.Send())
}

// PriceQuote replaces the quote's lines with the admin's priced lines and
// emails the requester.
func (ar *AdminRoutesManager) PriceQuote(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "quote")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.QuotePricingRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	quote, err := ar.quoteService.Price(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save quote", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Quote priced"), gecho.WithData(quote), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "quote")
		return
	}

	if err := ar.quoteService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete quote", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Quote deleted"), gecho.Send())
}
