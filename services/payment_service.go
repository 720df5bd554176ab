package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/uptrace/bun"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// IntentCreator creates a Stripe payment intent. paymentintent.New in
// production.
type IntentCreator func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)

type PaymentIntentResult struct {
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

type PaymentService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	db        *database.DB
	invoices  *InvoiceService
	newIntent IntentCreator
}

func NewPaymentService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, invoices *InvoiceService) *PaymentService {
	stripe.Key = cfg.Payments.StripeSecretKey
	return &PaymentService{
		logger:    logger,
		cfg:       cfg,
		db:        db,
		invoices:  invoices,
		newIntent: paymentintent.New,
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (ps *PaymentService) currency() string {
	if c := strings.ToLower(ps.cfg.Payments.Currency); c != "" {
		return c
	}
	return string(stripe.CurrencyUSD)
}

// CreateIntent starts a card payment for a customer's sent invoice.
func (ps *PaymentService) CreateIntent(ctx context.Context, invoiceID, customerID uuid.UUID) (*PaymentIntentResult, error) {
	invoice, err := ps.invoices.Get(ctx, invoiceID, &customerID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != tables.InvoiceStatusSent {
		return nil, fmt.Errorf("invoice is %s: %w", invoice.Status, lib.ErrInvalidState)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(invoice.Total)),
		Currency: stripe.String(ps.currency()),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Invoice " + invoice.InvoiceNumber),
		Metadata: map[string]string{
			"invoice_id":     invoice.Id.String(),
			"invoice_number": invoice.InvoiceNumber,
			"customer_id":    customerID.String(),
		},
	}

	pi, err := ps.newIntent(params)
	if err != nil {
		ps.logger.Error("Failed to create payment intent", gecho.Field("error", err), gecho.Field("invoice_id", invoiceID))
		return nil, err
	}

	if err := ps.invoices.setPaymentIntent(ctx, invoice.Id, pi.ID); err != nil {
		ps.logger.Warn("Failed to store payment intent id", gecho.Field("error", err), gecho.Field("invoice_id", invoiceID))
	}

	return &PaymentIntentResult{ClientSecret: pi.ClientSecret, Amount: invoice.Total, Currency: ps.currency()}, nil
}

// HandleWebhook verifies and applies a Stripe event. Events that reference
// unknown invoices, or payments already recorded, are acknowledged without
// effect so Stripe stops retrying them.
func (ps *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, ps.cfg.Payments.StripeWebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		ps.logger.Warn("Rejected webhook", gecho.Field("error", err))
		return ErrInvalidSignature
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("failed to parse payment intent: %w", err)
		}
		return ps.applyIntent(ctx, &pi)
	case stripe.EventTypePaymentIntentPaymentFailed:
		ps.logger.Warn("Card payment failed", gecho.Field("event_id", event.ID))
	default:
		ps.logger.Debug("Ignoring webhook event", gecho.Field("type", event.Type))
	}
	return nil
}

func (ps *PaymentService) applyIntent(ctx context.Context, pi *stripe.PaymentIntent) error {
	invoiceID, err := uuid.Parse(pi.Metadata["invoice_id"])
	if err != nil {
		ps.logger.Warn("Payment intent without invoice", gecho.Field("intent_id", pi.ID))
		return nil
	}

	paidAt := time.Now()
	_, err = ps.record(ctx, invoiceID, &tables.Payment{
		Amount:    float64(pi.AmountReceived) / 100,
		Method:    tables.PaymentMethodCard,
		Status:    tables.PaymentStatusSucceeded,
		Reference: pi.ID,
		PaidAt:    &paidAt,
	})
	switch {
	case err == nil:
		ps.logger.Info("Card payment recorded", gecho.Field("invoice_id", invoiceID), gecho.Field("intent_id", pi.ID))
		return nil
	case lib.IsNotFound(err), errors.Is(err, lib.ErrConflict), errors.Is(err, lib.ErrInvalidState):
		ps.logger.Warn("Webhook payment not applied", gecho.Field("error", err), gecho.Field("intent_id", pi.ID))
		return nil
	}
	return err
}

// Record stores a payment taken outside Stripe (cash, check, transfer).
func (ps *PaymentService) Record(ctx context.Context, invoiceID uuid.UUID, req *structs.PaymentRequest) (*tables.Payment, error) {
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	return ps.record(ctx, invoiceID, &tables.Payment{
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    tables.PaymentStatusSucceeded,
		Reference: strings.TrimSpace(req.Reference),
		PaidAt:    &paidAt,
	})
}

// record inserts a payment and marks the invoice paid once succeeded payments
// cover its total, all under the invoice row lock.
func (ps *PaymentService) record(ctx context.Context, invoiceID uuid.UUID, payment *tables.Payment) (*tables.Payment, error) {
	err := ps.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		invoice, err := ps.invoices.get(ctx, tx, invoiceID, nil, true)
		if err != nil {
			return err
		}
		if invoice.Status == tables.InvoiceStatusPaid || invoice.Status == tables.InvoiceStatusVoid {
			return fmt.Errorf("invoice is %s: %w", invoice.Status, lib.ErrInvalidState)
		}

		payment.InvoiceId = invoice.Id
		payment.CustomerId = invoice.CustomerId
		if _, err := database.Create(ctx, tx, payment); err != nil {
			return lib.MapPgError(err)
		}

		var paid float64
		err = tx.NewSelect().
			Model((*tables.Payment)(nil)).
			ColumnExpr("COALESCE(SUM(amount), 0)").
			Where("invoice_id = ?", invoice.Id).
			Where("status = ?", tables.PaymentStatusSucceeded).
			Scan(ctx, &paid)
		if err != nil {
			return err
		}

		if toCents(paid) >= toCents(invoice.Total) {
			at := time.Now()
			if payment.PaidAt != nil {
				at = *payment.PaidAt
			}
			if _, err := ps.invoices.markPaid(ctx, tx, invoice.Id, at); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !lib.IsNotFound(err) && !errors.Is(err, lib.ErrInvalidState) {
			ps.logger.Error("Failed to record payment", gecho.Field("error", err), gecho.Field("invoice_id", invoiceID))
		}
		return nil, err
	}
	return payment, nil
}

func (ps *PaymentService) ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]tables.Payment, error) {
	return database.Query[tables.Payment](ps.db).
		Where("invoice_id", invoiceID).
		OrderBy("created_at", database.ASC).
		All(ctx)
}

func (ps *PaymentService) List(ctx context.Context, page, pageSize int) (*database.PaginationResult[tables.Payment], error) {
	query := database.Query[tables.Payment](ps.db).OrderBy("created_at", database.DESC).OrderBy("id", database.ASC)
	return database.Paginate(ctx, query, page, pageSize)
}
