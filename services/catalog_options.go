package services

import (
	"errors"
	"fmt"
	"poolcare_server/database"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidOptions marks a listing request with unusable filters or sorting.
var ErrInvalidOptions = errors.New("invalid list options")

// CatalogListOptions contains filtering and pagination options for product and
// service listings.
type CatalogListOptions struct {
	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	IsActive   *bool      `json:"is_active,omitempty"`
	IsFeatured *bool      `json:"is_featured,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"` // includes subcategories
	MinPrice   *float64   `json:"min_price,omitempty"`
	MaxPrice   *float64   `json:"max_price,omitempty"`
	SearchTerm string     `json:"search_term,omitempty"`

	// Sorting
	SortBy        string `json:"sort_by"`        // created_at, updated_at, price, name
	SortDirection string `json:"sort_direction"` // ASC or DESC

	IncludeAttachments bool `json:"include_attachments"`

	Timeout time.Duration `json:"-"`
}

var validSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"price":      true,
	"name":       true,
}

// normalize applies defaults and rejects inconsistent options
func (o *CatalogListOptions) normalize() error {
	o.Page, o.PageSize = database.NormalizePage(o.Page, o.PageSize)
	if o.SortBy == "" {
		o.SortBy = "name"
	}
	o.SortDirection = strings.ToUpper(o.SortDirection)
	if o.SortDirection == "" {
		o.SortDirection = string(database.ASC)
	}
	if o.Timeout == 0 {
		o.Timeout = 10 * time.Second
	}

	if !validSortFields[o.SortBy] {
		return fmt.Errorf("invalid sort field: %s", o.SortBy)
	}
	if o.SortDirection != string(database.ASC) && o.SortDirection != string(database.DESC) {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", o.SortDirection)
	}
	if o.MinPrice != nil && o.MaxPrice != nil && *o.MinPrice > *o.MaxPrice {
		return fmt.Errorf("min_price cannot be greater than max_price")
	}
	return nil
}

// cacheKey identifies a normalized option set
func (o *CatalogListOptions) cacheKey() string {
	str := func(v any) string {
		switch p := v.(type) {
		case *bool:
			if p != nil {
				return fmt.Sprint(*p)
			}
		case *float64:
			if p != nil {
				return fmt.Sprint(*p)
			}
		case *uuid.UUID:
			if p != nil {
				return p.String()
			}
		}
		return "-"
	}
	return fmt.Sprintf("p%d:s%d:a%s:f%s:c%s:min%s:max%s:q%s:%s:%s:att%v",
		o.Page, o.PageSize, str(o.IsActive), str(o.IsFeatured), str(o.CategoryID),
		str(o.MinPrice), str(o.MaxPrice), strings.ToLower(o.SearchTerm),
		o.SortBy, o.SortDirection, o.IncludeAttachments)
}

// applyCatalogFilters applies the filters shared by products and services.
// Columns are qualified with the model alias since the Category relation is
// joined in. categoryIDs is the requested category plus its descendants.
func applyCatalogFilters[T any](q *database.QueryBuilder[T], alias string, o *CatalogListOptions, categoryIDs []uuid.UUID, searchColumns ...string) *database.QueryBuilder[T] {
	col := func(name string) string { return alias + "." + name }

	if o.IsActive != nil {
		q = q.Where(col("is_active"), *o.IsActive)
	}
	if o.IsFeatured != nil {
		q = q.Where(col("is_featured"), *o.IsFeatured)
	}
	if len(categoryIDs) > 0 {
		q = q.WhereIn(col("category_id"), categoryIDs)
	}
	if o.MinPrice != nil {
		q = q.WhereOp(col("price"), ">=", *o.MinPrice)
	}
	if o.MaxPrice != nil {
		q = q.WhereOp(col("price"), "<=", *o.MaxPrice)
	}

	qualified := make([]string, len(searchColumns))
	for i, c := range searchColumns {
		qualified[i] = col(c)
	}
	q = q.Search(o.SearchTerm, qualified...)

	return q.OrderBy(col(o.SortBy), database.OrderDirection(o.SortDirection)).
		OrderBy(col("id"), database.ASC).
		Timeout(o.Timeout)
}
