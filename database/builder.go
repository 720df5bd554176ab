package database

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// condition is a single WHERE fragment in bun's placeholder syntax.
type condition struct {
	sql   string
	args  []any
	anyOf []condition // OR-ed together and wrapped in parentheses
}

type relation struct {
	name  string
	apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// QueryBuilder provides a fluent, type-safe API over bun for a single model type.
// It runs against any bun.IDB: the pooled *DB or a bun.Tx.
type QueryBuilder[T any] struct {
	db bun.IDB

	conds     []condition
	orders    []string
	columns   []string
	relations []relation
	limit     int
	offset    int
	forUpdate bool

	timeout time.Duration
	retry   bool
}

// Query creates a new QueryBuilder instance. Retries are disabled inside a
// transaction, where a failed statement aborts the whole transaction.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	_, inTx := db.(bun.Tx)
	return &QueryBuilder[T]{db: db, retry: !inTx}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom comparison operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: "? " + operator + " ?", args: []any{bun.Ident(column), value}})
	return q
}

// WhereNot adds a WHERE column <> value condition
func (q *QueryBuilder[T]) WhereNot(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "<>", value)
}

// WhereIn adds a WHERE IN condition. values must be a slice.
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: "? IN (?)", args: []any{bun.Ident(column), bun.In(values)}})
	return q
}

// WhereNotIn adds a WHERE NOT IN condition. values must be a slice.
func (q *QueryBuilder[T]) WhereNotIn(column string, values any) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: "? NOT IN (?)", args: []any{bun.Ident(column), bun.In(values)}})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: "? IS NULL", args: []any{bun.Ident(column)}})
	return q
}

// WhereNotNull adds a WHERE IS NOT NULL condition
func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: "? IS NOT NULL", args: []any{bun.Ident(column)}})
	return q
}

// WhereRaw adds a raw WHERE condition using bun placeholders
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.conds = append(q.conds, condition{sql: sql, args: args})
	return q
}

// Search matches term case-insensitively against any of the columns.
func (q *QueryBuilder[T]) Search(term string, columns ...string) *QueryBuilder[T] {
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + term + "%"
	group := make([]condition, len(columns))
	for i, col := range columns {
		group[i] = condition{sql: "? ILIKE ?", args: []any{bun.Ident(col), pattern}}
	}
	q.conds = append(q.conds, condition{anyOf: group})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	if direction != DESC {
		direction = ASC
	}
	q.orders = append(q.orders, column+" "+string(direction))
	return q
}

// Columns restricts the selected columns
func (q *QueryBuilder[T]) Columns(columns ...string) *QueryBuilder[T] {
	q.columns = append(q.columns, columns...)
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limit = limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offset = offset
	return q
}

// Relation preloads a bun relation declared on T, optionally customising its query
func (q *QueryBuilder[T]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, relation{name: name, apply: apply})
	return q
}

// ForUpdate locks the selected rows; only meaningful inside a transaction
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (q *QueryBuilder[T]) applyWheres(b bun.QueryBuilder) bun.QueryBuilder {
	for _, c := range q.conds {
		if len(c.anyOf) == 0 {
			b = b.Where(c.sql, c.args...)
			continue
		}
		group := c.anyOf
		b = b.WhereGroup(" AND ", func(g bun.QueryBuilder) bun.QueryBuilder {
			for _, alt := range group {
				g = g.WhereOr(alt.sql, alt.args...)
			}
			return g
		})
	}
	return b
}

func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	sel := q.db.NewSelect().Model(model).ApplyQueryBuilder(q.applyWheres)

	if len(q.columns) > 0 {
		sel = sel.Column(q.columns...)
	}
	for _, rel := range q.relations {
		sel = sel.Relation(rel.name, rel.apply...)
	}
	for _, o := range q.orders {
		sel = sel.Order(o)
	}
	if q.limit > 0 {
		sel = sel.Limit(q.limit)
	}
	if q.offset > 0 {
		sel = sel.Offset(q.offset)
	}
	if q.forUpdate {
		sel = sel.For("UPDATE")
	}
	return sel
}
