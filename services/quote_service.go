package services

import (
	"context"
	"fmt"
	"poolcare_server/catalog"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type QuoteListOptions struct {
	CustomerID *uuid.UUID
	Status     tables.QuoteStatus
	Search     string
	Page       int
	PageSize   int
}

type QuoteService struct {
	logger   *gecho.Logger
	db       *database.DB
	email    *EmailService
	resolver *lineResolver
}

func NewQuoteService(logger *gecho.Logger, db *database.DB, email *EmailService, resolver *lineResolver) *QuoteService {
	return &QuoteService{logger: logger, db: db, email: email, resolver: resolver}
}

func quoteLines(quoteID uuid.UUID, lines []billedLine) []tables.QuoteLine {
	rows := make([]tables.QuoteLine, len(lines))
	for i, l := range lines {
		rows[i] = tables.QuoteLine{
			QuoteId:     quoteID,
			ItemType:    l.ItemType,
			ItemId:      l.ItemId,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.billing().Total(),
			SortOrder:   i,
		}
	}
	return rows
}

// Create stores a quote request from the public form. Requested items are
// priced at today's catalog price as a starting point for the admin. A
// request from a known email is linked to that customer.
func (qs *QuoteService) Create(ctx context.Context, req *structs.QuoteRequest) (*tables.Quote, error) {
	requested := make([]structs.BillableLine, len(req.Items))
	for i, item := range req.Items {
		id := item.ItemId
		requested[i] = structs.BillableLine{ItemType: item.ItemType, ItemId: &id, Quantity: item.Quantity}
	}
	lines, err := qs.resolver.resolve(ctx, requested)
	if err != nil {
		return nil, err
	}
	totals := catalog.QuoteTotals(billingLines(lines), 0)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	quote := &tables.Quote{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
		Message:  req.Message,
		Status:   tables.QuoteStatusRequested,
		Subtotal: totals.Subtotal,
		Total:    totals.Total,
	}

	customer, err := database.Query[tables.User](qs.db).Where("email", email).First(ctx)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		quote.CustomerId = &customer.Id
	}

	err = qs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Create(ctx, tx, quote); err != nil {
			return err
		}
		created, err := database.Query[tables.QuoteLine](tx).InsertMany(ctx, quoteLines(quote.Id, lines))
		quote.Lines = created
		return err
	})
	if err != nil {
		qs.logger.Error("Failed to create quote", gecho.Field("error", err), gecho.Field("email", email))
		return nil, lib.MapPgError(err)
	}

	if err := qs.email.SendQuoteReceived(quote); err != nil {
		qs.logger.Warn("Failed to send quote confirmation", gecho.Field("error", err), gecho.Field("id", quote.Id))
	}
	return quote, nil
}

func (qs *QuoteService) List(ctx context.Context, opts QuoteListOptions) (*database.PaginationResult[tables.Quote], error) {
	query := database.Query[tables.Quote](qs.db)
	if opts.CustomerID != nil {
		query = query.Where("customer_id", *opts.CustomerID)
	}
	if opts.Status != "" {
		query = query.Where("status", opts.Status)
	}
	query = query.Search(opts.Search, "name", "email").
		OrderBy("created_at", database.DESC).
		OrderBy("id", database.ASC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		qs.logger.Error("Failed to fetch quotes", gecho.Field("error", err))
		return nil, err
	}
	return result, nil
}

func (qs *QuoteService) Get(ctx context.Context, id uuid.UUID, customerID *uuid.UUID) (*tables.Quote, error) {
	query := database.Query[tables.Quote](qs.db).Relation("Lines", bySortOrder).Where("q.id", id)
	if customerID != nil {
		query = query.Where("q.customer_id", *customerID)
	}

	quote, err := query.First(ctx)
	if err != nil {
		qs.logger.Error("Failed to fetch quote", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if quote == nil {
		return nil, lib.ErrNotFound
	}
	return quote, nil
}

// Price replaces the quote's lines, applies the discount like an itemized
// bundle and emails the customer. Quotes that were already answered cannot be
// repriced.
func (qs *QuoteService) Price(ctx context.Context, id uuid.UUID, req *structs.QuotePricingRequest) (*tables.Quote, error) {
	lines, err := qs.resolver.resolve(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	totals := catalog.QuoteTotals(billingLines(lines), req.DiscountPercentage)

	var quote *tables.Quote
	err = qs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		current, err := database.Query[tables.Quote](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return lib.ErrNotFound
		}
		if current.Status != tables.QuoteStatusRequested && current.Status != tables.QuoteStatusPriced {
			return fmt.Errorf("quote is %s: %w", current.Status, lib.ErrInvalidState)
		}

		if _, err := database.Query[tables.QuoteLine](tx).Where("quote_id", id).Delete(ctx); err != nil {
			return err
		}
		created, err := database.Query[tables.QuoteLine](tx).InsertMany(ctx, quoteLines(id, lines))
		if err != nil {
			return err
		}

		quote, err = database.UpdateByID[tables.Quote](ctx, tx, id, map[string]any{
			"status":              tables.QuoteStatusPriced,
			"discount_percentage": req.DiscountPercentage,
			"subtotal":            totals.Subtotal,
			"discount_amount":     totals.DiscountAmount,
			"total":               totals.Total,
			"valid_until":         req.ValidUntil,
		})
		if err != nil {
			return err
		}
		quote.Lines = created
		return nil
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			qs.logger.Error("Failed to price quote", gecho.Field("error", err), gecho.Field("id", id))
		}
		return nil, err
	}

	if err := qs.email.SendQuotePriced(quote); err != nil {
		qs.logger.Warn("Failed to send priced quote", gecho.Field("error", err), gecho.Field("id", id))
	}
	return quote, nil
}

// Respond records the customer's answer to a priced quote.
func (qs *QuoteService) Respond(ctx context.Context, id, customerID uuid.UUID, accept bool) (*tables.Quote, error) {
	status := tables.QuoteStatusDeclined
	if accept {
		status = tables.QuoteStatusAccepted
	}

	var quote *tables.Quote
	err := qs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		current, err := database.Query[tables.Quote](tx).
			Where("id", id).
			Where("customer_id", customerID).
			ForUpdate().
			First(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return lib.ErrNotFound
		}
		if current.Status != tables.QuoteStatusPriced {
			return fmt.Errorf("quote is %s: %w", current.Status, lib.ErrInvalidState)
		}
		now := time.Now()
		if accept && current.ValidUntil != nil && current.ValidUntil.Before(now) {
			return fmt.Errorf("quote expired on %s: %w", current.ValidUntil.Format(time.DateOnly), lib.ErrInvalidState)
		}

		quote, err = database.UpdateByID[tables.Quote](ctx, tx, id, map[string]any{
			"status":       status,
			"responded_at": now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	qs.logger.Info("Quote answered", gecho.Field("id", id), gecho.Field("status", status))
	return quote, nil
}

func (qs *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Quote](ctx, qs.db, id)
	if err != nil {
		qs.logger.Error("Failed to delete quote", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
