package handling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"poolcare_server/catalog"
	"poolcare_server/config"
	"poolcare_server/lib"
	"poolcare_server/services"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogListOptions(t *testing.T) {
	catID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/products?page=2&page_size=10&is_featured=true&category_id="+catID.String()+
		"&min_price=10.5&max_price=99&search=+pump+&sort_by=price&sort_direction=desc&include_attachments=1", nil)

	opts, err := ParseCatalogListOptions(req)
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 10, opts.PageSize)
	assert.Nil(t, opts.IsActive)
	require.NotNil(t, opts.IsFeatured)
	assert.True(t, *opts.IsFeatured)
	require.NotNil(t, opts.CategoryID)
	assert.Equal(t, catID, *opts.CategoryID)
	assert.InDelta(t, 10.5, *opts.MinPrice, 1e-9)
	assert.InDelta(t, 99.0, *opts.MaxPrice, 1e-9)
	assert.Equal(t, "pump", opts.SearchTerm)
	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "DESC", opts.SortDirection)
	assert.True(t, opts.IncludeAttachments)
}

func TestParseCatalogListOptionsErrors(t *testing.T) {
	for _, q := range []string{
		"page=two",
		"is_active=maybe",
		"category_id=abc",
		"min_price=cheap",
		"include_attachments=perhaps",
	} {
		t.Run(q, func(t *testing.T) {
			_, err := ParseCatalogListOptions(httptest.NewRequest(http.MethodGet, "/catalog/products?"+q, nil))
			assert.Error(t, err)
		})
	}
}

func TestOptionalTime(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?from=2026-03-01&to=2026-03-02T15:04:05Z&bad=tomorrow", nil)
	q := req.URL.Query()

	from, err := OptionalTime(q, "from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := OptionalTime(q, "to")
	require.NoError(t, err)
	assert.Equal(t, 15, to.Hour())

	missing, err := OptionalTime(q, "until")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = OptionalTime(q, "bad")
	assert.Error(t, err)
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	for _, tt := range []struct {
		param   string
		wantErr bool
	}{
		{id.String(), false},
		{"not-an-id", true},
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", tt.param)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		got, err := URLParamUUID(req, "id")
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		contains string
	}{
		{"field errors", &lib.ValidationError{Errors: []lib.FieldError{{Field: "name", Message: "is required"}}}, http.StatusBadRequest, "is required"},
		{"bundle form", catalog.ValidationResult{Errors: []catalog.FieldError{{Field: "flat_price", Message: "must be greater than 0"}}}, http.StatusBadRequest, "flat_price"},
		{"not found", fmt.Errorf("parent category: %w", lib.ErrNotFound), http.StatusNotFound, ""},
		{"has children", lib.ErrHasChildren, http.StatusConflict, "deletable"},
		{"cycle", lib.ErrCategoryCycle, http.StatusBadRequest, ""},
		{"file too large", services.ErrFileTooLarge, http.StatusBadRequest, ""},
		{"bad options", fmt.Errorf("%w: bad sort", services.ErrInvalidOptions), http.StatusBadRequest, ""},
		{"invalid state", lib.ErrInvalidState, http.StatusConflict, ""},
		{"integrity", lib.ErrInUse, http.StatusConflict, "Failed to delete product"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Failed to delete product"},
	}

	logger := config.NewLogger(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(tt.err, "Failed to delete product", logger, rec)
			assert.Equal(t, tt.want, rec.Code)
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestRespondBodyError(t *testing.T) {
	logger := config.NewLogger(false)

	rec := httptest.NewRecorder()
	RespondBodyError(errors.New("unexpected EOF"), logger, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	RespondBodyError(&lib.ValidationError{Errors: []lib.FieldError{{Field: "email", Message: "must be a valid email address"}}}, logger, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}
