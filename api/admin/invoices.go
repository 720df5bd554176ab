package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/services"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.InvoiceListOptions{Status: tables.InvoiceStatus(query.Get("status"))}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err != nil {
		badQuery(w, err)
		return
	}
	if opts.CustomerID, err = handling.OptionalUUID(query, "customer_id"); err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.invoiceService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch invoices", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "invoice")
		return
	}

	invoice, err := ar.invoiceService.Get(r.Context(), id, nil)
	if err != nil {
		handling.RespondError(err, "Failed to fetch invoice", ar.logger, w)
		return
	}
	payments, err := ar.paymentService.ListForInvoice(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch invoice", ar.logger, w)
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

func (ar *AdminRoutesManager) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.InvoiceRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	invoice, err := ar.invoiceService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save invoice", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Invoice created"), gecho.WithData(invoice), gecho.Send())
}

func (ar *AdminRoutesManager) SendInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "invoice")
		return
	}

	invoice, err := ar.invoiceService.Send(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Failed to send invoice", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Invoice sent"), gecho.WithData(invoice), gecho.Send())
}

func (ar *AdminRoutesManager) VoidInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "invoice")
		return
	}

	invoice, err := ar.invoiceService.Void(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Failed to void invoice", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Invoice voided"), gecho.WithData(invoice), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "invoice")
		return
	}

	if err := ar.invoiceService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete invoice", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Invoice deleted"), gecho.Send())
}

// RecordPayment books a cash, check or transfer payment against an invoice.
func (ar *AdminRoutesManager) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "invoice")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.PaymentRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	payment, err := ar.paymentService.Record(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save payment", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Payment recorded"), gecho.WithData(payment), gecho.Send())
}

func (ar *AdminRoutesManager) ListPayments(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.paymentService.List(r.Context(), page, pageSize)
	if err != nil {
		handling.HandleError(err, "Failed to fetch payments", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}
