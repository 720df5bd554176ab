package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// ErrNoConditions guards against UPDATE/DELETE without a WHERE clause.
var ErrNoConditions = errors.New("refusing to update or delete without conditions")

// run applies the builder's timeout and retry policy to op and labels failures.
func (q *QueryBuilder[T]) run(ctx context.Context, label string, op func(ctx context.Context) error) error {
	start := time.Now()

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	var err error
	if q.retry {
		err = WithRetry(ctx, func() error { return op(ctx) })
	} else {
		err = op(ctx)
	}

	if err != nil {
		return fmt.Errorf("failed to execute %s query: %w (took %v)", label, err, time.Since(start))
	}
	return nil
}

// All executes the query and returns all matching records
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	var data []T

	err := q.run(ctx, "select", func(ctx context.Context) error {
		data = nil
		return q.buildSelect(&data).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First returns the first matching record, or nil when nothing matches
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	data := new(T)
	found := true

	err := q.run(ctx, "first", func(ctx context.Context) error {
		err := q.buildSelect(data).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return data, nil
}

// Count returns the number of matching records, ignoring limit and offset
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	var count int

	err := q.run(ctx, "count", func(ctx context.Context) error {
		var err error
		count, err = q.db.NewSelect().Model((*T)(nil)).ApplyQueryBuilder(q.applyWheres).Count(ctx)
		return err
	})
	return count, err
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	var exists bool

	err := q.run(ctx, "exists", func(ctx context.Context) error {
		var err error
		exists, err = q.db.NewSelect().Model((*T)(nil)).ApplyQueryBuilder(q.applyWheres).Exists(ctx)
		return err
	})
	return exists, err
}

// Insert inserts a new record; database defaults are scanned back into data
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	err := q.run(ctx, "insert", func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// InsertMany inserts multiple records in one statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return data, nil
	}

	err := q.run(ctx, "bulk insert", func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Upsert inserts data or, on conflict with the given columns, overwrites the
// listed columns with the new values
func (q *QueryBuilder[T]) Upsert(ctx context.Context, data *T, conflict []string, update ...string) (*T, error) {
	err := q.run(ctx, "upsert", func(ctx context.Context) error {
		idents := make([]bun.Ident, len(conflict))
		for i, col := range conflict {
			idents[i] = bun.Ident(col)
		}
		ins := q.db.NewInsert().Model(data).On("CONFLICT (?) DO UPDATE", bun.In(idents))
		for _, col := range update {
			ins = ins.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
		}
		_, err := ins.Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (q *QueryBuilder[T]) buildUpdate(data any) (*bun.UpdateQuery, error) {
	if len(q.conds) == 0 {
		return nil, ErrNoConditions
	}

	switch v := data.(type) {
	case map[string]any:
		if len(v) == 0 {
			return nil, errors.New("no columns to update")
		}
		upd := q.db.NewUpdate().Model((*T)(nil))
		// sorted for stable SQL, which keeps prepared statement caches warm
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			upd = upd.Set("? = ?", bun.Ident(k), v[k])
		}
		return upd.ApplyQueryBuilder(q.applyWheres), nil
	case *T:
		return q.db.NewUpdate().Model(v).ExcludeColumn("id", "created_at").ApplyQueryBuilder(q.applyWheres), nil
	default:
		return nil, fmt.Errorf("unsupported data type for update: %T", data)
	}
}

// Update updates records matching the query with either a column map or a full *T
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	upd, err := q.buildUpdate(data)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = q.run(ctx, "update", func(ctx context.Context) error {
		res, err := upd.Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return int(affected), err
}

// UpdateReturning updates records and returns them
func (q *QueryBuilder[T]) UpdateReturning(ctx context.Context, data any) ([]T, error) {
	upd, err := q.buildUpdate(data)
	if err != nil {
		return nil, err
	}

	var results []T
	err = q.run(ctx, "update", func(ctx context.Context) error {
		results = nil
		_, err := upd.Returning("*").Exec(ctx, &results)
		return err
	})
	return results, err
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if len(q.conds) == 0 {
		return 0, ErrNoConditions
	}

	var affected int64
	err := q.run(ctx, "delete", func(ctx context.Context) error {
		res, err := q.db.NewDelete().Model((*T)(nil)).ApplyQueryBuilder(q.applyWheres).Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return int(affected), err
}

// DeleteReturning deletes records and returns them
func (q *QueryBuilder[T]) DeleteReturning(ctx context.Context) ([]T, error) {
	if len(q.conds) == 0 {
		return nil, ErrNoConditions
	}

	var results []T
	err := q.run(ctx, "delete", func(ctx context.Context) error {
		results = nil
		_, err := q.db.NewDelete().Model((*T)(nil)).ApplyQueryBuilder(q.applyWheres).Returning("*").Exec(ctx, &results)
		return err
	})
	return results, err
}
