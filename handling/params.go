package handling

import (
	"fmt"
	"net/http"
	"net/url"
	"poolcare_server/services"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseCatalogListOptions parses HTTP query parameters into CatalogListOptions
func ParseCatalogListOptions(r *http.Request) (*services.CatalogListOptions, error) {
	query := r.URL.Query()
	opts := &services.CatalogListOptions{}

	// Early return if no query params
	if len(query) == 0 {
		return opts, nil
	}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	if opts.IsActive, err = OptionalBool(query, "is_active"); err != nil {
		return nil, err
	}
	if opts.IsFeatured, err = OptionalBool(query, "is_featured"); err != nil {
		return nil, err
	}
	if opts.CategoryID, err = OptionalUUID(query, "category_id"); err != nil {
		return nil, err
	}
	if opts.MinPrice, err = optionalFloat(query, "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = optionalFloat(query, "max_price"); err != nil {
		return nil, err
	}

	opts.SearchTerm = strings.TrimSpace(query.Get("search"))
	opts.SortBy = query.Get("sort_by")
	opts.SortDirection = strings.ToUpper(query.Get("sort_direction"))

	if include := query.Get("include_attachments"); include != "" {
		if opts.IncludeAttachments, err = strconv.ParseBool(include); err != nil {
			return nil, fmt.Errorf("include_attachments: %w", err)
		}
	}

	return opts, nil
}

// ParsePage reads page and page_size; zero values are defaulted later.
func ParsePage(r *http.Request) (page, pageSize int, err error) {
	query := r.URL.Query()
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("page: %w", err)
		}
	}
	if v := query.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("page_size: %w", err)
		}
	}
	return page, pageSize, nil
}

// URLParamUUID parses a chi path parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid id", name)
	}
	return id, nil
}

func OptionalUUID(query url.Values, key string) (*uuid.UUID, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid id", key)
	}
	return &id, nil
}

// OptionalTime accepts RFC 3339 timestamps and plain dates.
func OptionalTime(query url.Values, key string) (*time.Time, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: expected RFC 3339 or YYYY-MM-DD", key)
}

func OptionalBool(query url.Values, key string) (*bool, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &b, nil
}

func optionalFloat(query url.Values, key string) (*float64, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}
