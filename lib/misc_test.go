package lib

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	n, err := GenerateInvoiceNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-202610-[A-Z2-9]{5}$`), n)
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("chlorine tablets", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "CHL-"))
	assert.Len(t, sku, 8)

	sku, err = GenerateSKU("--", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "ITM-"))
}

func TestMapPgError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrConflict},
		{"23503", ErrInUse},
		{"P0002", ErrNotFound},
	}
	for _, tt := range tests {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: tt.code})
		assert.ErrorIs(t, MapPgError(err), tt.want, tt.code)
	}

	other := errors.New("boom")
	assert.Equal(t, other, MapPgError(other))
	assert.True(t, IsConflict(ErrInUse))
}

func TestValidCSRF(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, ValidCSRF(r))

	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	assert.False(t, ValidCSRF(r))

	r.Header.Set(CSRFHeaderName, "abc")
	assert.True(t, ValidCSRF(r))
}

func TestExtractAndValidateBody(t *testing.T) {
	type body struct {
		Email    string `json:"email" validate:"required,email"`
		Quantity int    `json:"quantity" validate:"min=1"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","quantity":2}`))
	got, err := ExtractAndValidateBody[body](r)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","quantity":0}`))
	_, err = ExtractAndValidateBody[body](r)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "quantity", Message: "must be at least 1"},
	}, ve.Errors)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":true}`))
	_, err = ExtractAndValidateBody[body](r)
	assert.Error(t, err)
}

func TestExtractAndValidateBodyShapes(t *testing.T) {
	type line struct {
		ItemID   string `json:"item_id" validate:"required"`
		Quantity int    `json:"quantity" validate:"min=1"`
	}
	type quote struct {
		Name  string `json:"name" validate:"required,max=5"`
		Lines []line `json:"lines" validate:"min=1,dive"`
	}

	t.Run("nested field path", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Pat","lines":[{"item_id":"a","quantity":0}]}`))
		_, err := ExtractAndValidateBody[quote](r)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []FieldError{{Field: "lines[0].quantity", Message: "must be at least 1"}}, ve.Errors)
	})

	t.Run("collection and string bounds", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Patricia","lines":[]}`))
		_, err := ExtractAndValidateBody[quote](r)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.ElementsMatch(t, []FieldError{
			{Field: "name", Message: "must be at most 5 characters"},
			{Field: "lines", Message: "must contain at least 1 items"},
		}, ve.Errors)
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		_, err := ExtractAndValidateBody[quote](r)
		assert.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("trailing data", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Pat","lines":[{"item_id":"a","quantity":1}]} {}`))
		_, err := ExtractAndValidateBody[quote](r)
		assert.ErrorIs(t, err, ErrTrailingData)
	})
}
