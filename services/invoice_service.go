package services

import (
	"context"
	"errors"
	"fmt"
	"poolcare_server/catalog"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const invoiceNumberAttempts = 5

type InvoiceListOptions struct {
	CustomerID *uuid.UUID
	Status     tables.InvoiceStatus
	Page       int
	PageSize   int
}

type InvoiceService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	db       *database.DB
	email    *EmailService
	resolver *lineResolver
}

func NewInvoiceService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, email *EmailService, resolver *lineResolver) *InvoiceService {
	return &InvoiceService{logger: logger, cfg: cfg, db: db, email: email, resolver: resolver}
}

func (is *InvoiceService) List(ctx context.Context, opts InvoiceListOptions) (*database.PaginationResult[tables.Invoice], error) {
	query := database.Query[tables.Invoice](is.db)
	if opts.CustomerID != nil {
		query = query.Where("customer_id", *opts.CustomerID)
	}
	if opts.Status != "" {
		query = query.Where("status", opts.Status)
	}
	query = query.OrderBy("issued_at", database.DESC).OrderBy("id", database.ASC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		is.logger.Error("Failed to fetch invoices", gecho.Field("error", err))
		return nil, err
	}
	return result, nil
}

// Get returns an invoice with its lines. With a customer id, invoices of
// other customers are reported as not found.
func (is *InvoiceService) Get(ctx context.Context, id uuid.UUID, customerID *uuid.UUID) (*tables.Invoice, error) {
	return is.get(ctx, is.db, id, customerID, false)
}

func (is *InvoiceService) get(ctx context.Context, db bun.IDB, id uuid.UUID, customerID *uuid.UUID, lock bool) (*tables.Invoice, error) {
	query := database.Query[tables.Invoice](db).Where("i.id", id)
	if customerID != nil {
		query = query.Where("i.customer_id", *customerID)
	}
	if lock {
		query = query.ForUpdate()
	} else {
		query = query.Relation("Lines", bySortOrder)
	}

	invoice, err := query.First(ctx)
	if err != nil {
		is.logger.Error("Failed to fetch invoice", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if invoice == nil {
		return nil, lib.ErrNotFound
	}
	return invoice, nil
}

// Create prices the lines, computes totals and stores the invoice as a draft.
// The invoice number is random, so a collision is retried with a new one.
func (is *InvoiceService) Create(ctx context.Context, req *structs.InvoiceRequest) (*tables.Invoice, error) {
	exists, err := database.Query[tables.User](is.db).Where("id", req.CustomerId).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("customer: %w", lib.ErrNotFound)
	}

	lines, err := is.resolver.resolve(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	taxRate := is.cfg.Payments.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	totals := catalog.ComputeInvoiceTotals(billingLines(lines), taxRate)

	now := time.Now()
	dueAt := req.DueAt
	if dueAt == nil {
		due := now.AddDate(0, 0, is.cfg.Payments.InvoiceDueDays)
		dueAt = &due
	}

	invoice := &tables.Invoice{
		CustomerId: req.CustomerId,
		ScheduleId: req.ScheduleId,
		Status:     tables.InvoiceStatusDraft,
		IssuedAt:   now,
		DueAt:      dueAt,
		TaxRate:    taxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Notes:      req.Notes,
	}

	for attempt := 1; ; attempt++ {
		invoice.InvoiceNumber, err = lib.GenerateInvoiceNumber(now)
		if err != nil {
			return nil, err
		}

		err = is.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
			if _, err := database.Create(ctx, tx, invoice); err != nil {
				return err
			}
			rows := make([]tables.InvoiceLine, len(lines))
			for i, l := range lines {
				rows[i] = tables.InvoiceLine{
					InvoiceId:   invoice.Id,
					ItemType:    l.ItemType,
					ItemId:      l.ItemId,
					Description: l.Description,
					Quantity:    l.Quantity,
					UnitPrice:   l.UnitPrice,
					Taxable:     l.Taxable,
					LineTotal:   l.billing().Total(),
					SortOrder:   i,
				}
			}
			created, err := database.Query[tables.InvoiceLine](tx).InsertMany(ctx, rows)
			invoice.Lines = created
			return err
		})
		if err == nil {
			break
		}

		mapped := lib.MapPgError(err)
		if errors.Is(mapped, lib.ErrConflict) && attempt < invoiceNumberAttempts {
			is.logger.Debug("Invoice number collision, retrying", gecho.Field("number", invoice.InvoiceNumber))
			invoice.Id = uuid.Nil
			continue
		}
		is.logger.Error("Failed to create invoice", gecho.Field("error", err), gecho.Field("customer_id", req.CustomerId))
		return nil, mapped
	}

	is.logger.Info("Invoice created",
		gecho.Field("id", invoice.Id),
		gecho.Field("number", invoice.InvoiceNumber),
		gecho.Field("total", invoice.Total))
	return invoice, nil
}

// transition changes the status of an invoice under a row lock when the
// current status is one of from.
func (is *InvoiceService) transition(ctx context.Context, db bun.IDB, id uuid.UUID, to tables.InvoiceStatus, extra map[string]any, from ...tables.InvoiceStatus) (*tables.Invoice, error) {
	current, err := is.get(ctx, db, id, nil, true)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, s := range from {
		allowed = allowed || current.Status == s
	}
	if !allowed {
		return nil, fmt.Errorf("invoice is %s: %w", current.Status, lib.ErrInvalidState)
	}

	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return database.UpdateByID[tables.Invoice](ctx, db, id, updates)
}

// Send marks a draft as sent and emails it to the customer. A failed email
// does not undo the status change.
func (is *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*tables.Invoice, error) {
	var invoice *tables.Invoice
	err := is.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = is.transition(ctx, tx, id, tables.InvoiceStatusSent, nil, tables.InvoiceStatusDraft)
		return err
	})
	if err != nil {
		return nil, err
	}

	customer, err := database.FindByID[tables.User](ctx, is.db, invoice.CustomerId)
	if err != nil || customer == nil {
		is.logger.Warn("Invoice sent without email, customer not loaded", gecho.Field("error", err), gecho.Field("id", id))
		return invoice, nil
	}
	if err := is.email.SendInvoice(invoice, customer.Email); err != nil {
		is.logger.Warn("Failed to email invoice", gecho.Field("error", err), gecho.Field("id", id))
	}
	return invoice, nil
}

// Void cancels an unpaid invoice.
func (is *InvoiceService) Void(ctx context.Context, id uuid.UUID) (*tables.Invoice, error) {
	var invoice *tables.Invoice
	err := is.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = is.transition(ctx, tx, id, tables.InvoiceStatusVoid, nil, tables.InvoiceStatusDraft, tables.InvoiceStatusSent)
		return err
	})
	return invoice, err
}

// markPaid runs inside the caller's transaction so the payment row and the
// status change commit together.
func (is *InvoiceService) markPaid(ctx context.Context, tx bun.Tx, id uuid.UUID, paidAt time.Time) (*tables.Invoice, error) {
	return is.transition(ctx, tx, id, tables.InvoiceStatusPaid, map[string]any{"paid_at": paidAt},
		tables.InvoiceStatusDraft, tables.InvoiceStatusSent)
}

func (is *InvoiceService) setPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	_, err := database.UpdateByID[tables.Invoice](ctx, is.db, id, map[string]any{"payment_intent_id": intentID})
	return err
}

// Delete removes a draft. Sent invoices are voided instead.
func (is *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.Query[tables.Invoice](is.db).
		Where("id", id).
		Where("status", tables.InvoiceStatusDraft).
		Delete(ctx)
	if err != nil {
		is.logger.Error("Failed to delete invoice", gecho.Field("error", err), gecho.Field("id", id))
		return lib.MapPgError(err)
	}
	if n > 0 {
		return nil
	}

	if _, err := is.Get(ctx, id, nil); err != nil {
		return err
	}
	return fmt.Errorf("only drafts can be deleted: %w", lib.ErrInvalidState)
}
