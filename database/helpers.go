package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination represents pagination parameters
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage clamps page and pageSize to sane values.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate counts all matches and returns one page of them
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], page, pageSize int) (*PaginationResult[T], error) {
	page, pageSize = NormalizePage(page, pageSize)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	data, err := q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db bun.IDB, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// FindByIDs is a helper to find multiple records by IDs
func FindByIDs[T any](ctx context.Context, db bun.IDB, ids any) ([]T, error) {
	return Query[T](db).WhereIn("id", ids).All(ctx)
}

// Create is a helper to insert a single record
func Create[T any](ctx context.Context, db bun.IDB, data *T) (*T, error) {
	return Query[T](db).Insert(ctx, data)
}

// UpdateByID updates the given columns and bumps updated_at.
func UpdateByID[T any](ctx context.Context, db bun.IDB, id any, data map[string]any) (*T, error) {
	data["updated_at"] = time.Now()
	rows, err := Query[T](db).Where("id", id).UpdateReturning(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](ctx context.Context, db bun.IDB, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// RawScan runs a raw query and scans the result into dest
func RawScan(ctx context.Context, db bun.IDB, dest any, query string, args ...any) error {
	return WithRetry(ctx, func() error {
		return db.NewRaw(query, args...).Scan(ctx, dest)
	})
}
