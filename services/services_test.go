package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"poolcare_server/config"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to tables.JobStatus
		want     bool
	}{
		{tables.JobStatusPending, tables.JobStatusInProgress, true},
		{tables.JobStatusPending, tables.JobStatusCancelled, true},
		{tables.JobStatusPending, tables.JobStatusCompleted, false},
		{tables.JobStatusInProgress, tables.JobStatusCompleted, true},
		{tables.JobStatusInProgress, tables.JobStatusCancelled, true},
		{tables.JobStatusInProgress, tables.JobStatusPending, false},
		{tables.JobStatusCompleted, tables.JobStatusCancelled, false},
		{tables.JobStatusCancelled, tables.JobStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCatalogListOptionsNormalize(t *testing.T) {
	opts := &CatalogListOptions{SortDirection: "desc"}
	require.NoError(t, opts.normalize())
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "DESC", opts.SortDirection)
	assert.Equal(t, 10*time.Second, opts.Timeout)

	bad := []*CatalogListOptions{
		{SortBy: "password"},
		{SortDirection: "sideways"},
		{MinPrice: ptrTo(50.0), MaxPrice: ptrTo(10.0)},
	}
	for _, o := range bad {
		assert.Error(t, o.normalize())
	}
}

func TestCatalogListOptionsCacheKey(t *testing.T) {
	a := &CatalogListOptions{}
	b := &CatalogListOptions{CategoryID: ptrTo(uuid.New())}
	c := &CatalogListOptions{SearchTerm: "Pump"}
	d := &CatalogListOptions{SearchTerm: "pump"}
	for _, o := range []*CatalogListOptions{a, b, c, d} {
		require.NoError(t, o.normalize())
	}

	assert.NotEqual(t, a.cacheKey(), b.cacheKey())
	assert.NotEqual(t, a.cacheKey(), c.cacheKey())
	assert.Equal(t, c.cacheKey(), d.cacheKey())
}

func TestItemPatch(t *testing.T) {
	patch := &structs.CatalogItemPatch{
		Name:            ptrTo("  Salt cell  "),
		SKU:             ptrTo("sc-100"),
		DurationMinutes: ptrTo(90),
		CategoryId:      ptrTo(uuid.New()),
		ClearCategory:   true,
		IsFeatured:      ptrTo(true),
	}

	product := itemPatch(patch, tables.ItemTypeProduct)
	assert.Equal(t, "Salt cell", product["name"])
	assert.Equal(t, "SC-100", product["sku"])
	assert.NotContains(t, product, "duration_minutes")
	assert.Contains(t, product, "category_id")
	assert.Nil(t, product["category_id"])
	assert.Equal(t, true, product["is_featured"])

	service := itemPatch(patch, tables.ItemTypeService)
	assert.Equal(t, 90, service["duration_minutes"])
	assert.NotContains(t, service, "sku")

	assert.Empty(t, itemPatch(&structs.CatalogItemPatch{}, tables.ItemTypeProduct))
}

func TestResolveCustomLines(t *testing.T) {
	r := &lineResolver{}

	lines, err := r.resolve(context.Background(), []structs.BillableLine{
		{Description: "Green to clean treatment", UnitPrice: ptrTo(250.0), Taxable: ptrTo(true)},
		{Description: "Chemicals", UnitPrice: ptrTo(12.5), Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[0].Taxable)
	assert.InDelta(t, 37.5, lines[1].billing().Total(), 0.001)

	_, err = r.resolve(context.Background(), []structs.BillableLine{{Quantity: 1}})
	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)
	assert.Equal(t, "lines[0].description", verr.Errors[0].Field)
	assert.Equal(t, "lines[0].unit_price", verr.Errors[1].Field)

	_, err = r.resolve(context.Background(), []structs.BillableLine{{ItemId: ptrTo(uuid.New()), Quantity: 1}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lines[0].item_type", verr.Errors[0].Field)
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(1999), toCents(19.99))
	assert.Equal(t, int64(10), toCents(0.1))
	assert.Equal(t, int64(0), toCents(0))
}

func TestHandleWebhook(t *testing.T) {
	const secret = "whsec_test"
	ps := &PaymentService{
		logger: config.NewLogger(false),
		cfg:    &structs.Config{Payments: &structs.PaymentsConfig{StripeWebhookSecret: secret}},
	}
	payload := []byte(`{"id":"evt_test","object":"event","type":"customer.created","data":{"object":{}}}`)

	t.Run("bad signature", func(t *testing.T) {
		err := ps.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("ignored event", func(t *testing.T) {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload:   payload,
			Secret:    secret,
			Timestamp: time.Now(),
		})
		assert.NoError(t, ps.HandleWebhook(context.Background(), payload, signed.Header))
	})
}

func ptrTo[T any](v T) *T { return &v }

func TestCacheRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "missing key", err: redis.Nil, want: false},
		{name: "wrapped missing key", err: fmt.Errorf("get: %w", redis.Nil), want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "pool timeout", err: redis.ErrPoolTimeout, want: true},
		{name: "dial", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: true},
		{name: "logical", err: errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheRetryable(tt.err))
		})
	}
}

func TestCacheKeys(t *testing.T) {
	id := uuid.MustParse("7f1e6a8e-1d2c-4b5a-9e8f-0a1b2c3d4e5f")
	assert.Equal(t, "role:7f1e6a8e-1d2c-4b5a-9e8f-0a1b2c3d4e5f", roleKey(id))
	assert.Equal(t, "ratelimit:10.0.0.1:/catalog/products", rateLimitKey("10.0.0.1", "/catalog/products"))
	assert.Equal(t, "catalog:list:bundles:2:20:pump", catalogListKey("bundles", 2, 20, "pump"))
}
