/*
 * Copyright 2025 marlowe-io.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package querying

import (
	"context"

	"github.com/uptrace/bun"
)

// QueryFunc composes a select statement rooted at model M into its final
// shape. The query it receives is already bound to M's table; the callback
// adds predicates, projections, ordering, joins, and so on, and returns the
// composed query. R is the row type the composed query scans into; it equals
// M unless the callback selects a projection.
type QueryFunc[M, R any] func(q *bun.SelectQuery) *bun.SelectQuery

// UpdateFunc composes an update statement rooted at model M. The callback
// supplies the SET clauses and predicates and returns the composed statement.
type UpdateFunc[M any] func(q *bun.UpdateQuery) *bun.UpdateQuery

// DeleteFunc composes a delete statement rooted at model M.
type DeleteFunc[M any] func(q *bun.DeleteQuery) *bun.DeleteQuery

// TypedQuery is an executable select statement whose rows scan into R.
// It is a single-shot value: build it, execute it once, discard it.
type TypedQuery[R any] struct {
	query *bun.SelectQuery
}

// Query builds a typed select over root model M producing rows of R.
// The statement is handed to fn already rooted at M's table; nothing is
// validated here, malformed compositions surface from Bun at execution time.
//
// Example:
//
//	q := querying.Query[Book, int64](db, func(q *bun.SelectQuery) *bun.SelectQuery {
//		return q.ColumnExpr("count(*)").Where("b.author = ?", author)
//	})
//	counts, err := q.All(ctx)
func Query[M, R any](db bun.IDB, fn QueryFunc[M, R]) *TypedQuery[R] {
	q := db.NewSelect().Model((*M)(nil))
	return &TypedQuery[R]{query: fn(q)}
}

// QueryModel builds a typed select whose rows are the root model itself.
// It is the common case of Query with R = M.
func QueryModel[M any](db bun.IDB, fn QueryFunc[M, M]) *TypedQuery[M] {
	return Query[M, M](db, fn)
}

// All executes the query and returns every matching row.
func (t *TypedQuery[R]) All(ctx context.Context) ([]R, error) {
	var rows []R
	if err := t.query.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// One executes the query and returns the first row. Bun's sql.ErrNoRows
// propagates when nothing matches.
func (t *TypedQuery[R]) One(ctx context.Context) (*R, error) {
	var row R
	if err := t.query.Limit(1).Scan(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Count executes the query as a COUNT(*).
func (t *TypedQuery[R]) Count(ctx context.Context) (int, error) {
	return t.query.Count(ctx)
}

// Exists reports whether the query matches at least one row.
func (t *TypedQuery[R]) Exists(ctx context.Context) (bool, error) {
	return t.query.Exists(ctx)
}

// Scan executes the query into caller-supplied destinations.
func (t *TypedQuery[R]) Scan(ctx context.Context, dest ...interface{}) error {
	return t.query.Scan(ctx, dest...)
}

// Unwrap exposes the underlying Bun select query for composition the typed
// accessors do not cover.
func (t *TypedQuery[R]) Unwrap() *bun.SelectQuery {
	return t.query
}

// String renders the query as SQL for diagnostics.
func (t *TypedQuery[R]) String() string {
	return t.query.String()
}

// ZeroOrOne executes q declaring that more than one match must not happen.
// It returns (nil, nil) for no rows and the single row otherwise. Two or
// more matches fail with *MoreThanOneResultError. The statement is capped
// at two rows before execution, fetching just enough to tell "exactly one"
// from "more than one".
func ZeroOrOne[R any](ctx context.Context, q *TypedQuery[R]) (*R, error) {
	var rows []R
	if err := q.query.Limit(2).Scan(ctx, &rows); err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, &MoreThanOneResultError{Query: q.String()}
	}
}

// Update builds an update statement over root model M, executes it, and
// returns the number of affected rows. Transaction boundaries belong to the
// caller: pass a bun.Tx as db to run inside one.
func Update[M any](ctx context.Context, db bun.IDB, fn UpdateFunc[M]) (int64, error) {
	res, err := fn(db.NewUpdate().Model((*M)(nil))).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete builds a delete statement over root model M, executes it, and
// returns the number of affected rows.
func Delete[M any](ctx context.Context, db bun.IDB, fn DeleteFunc[M]) (int64, error) {
	res, err := fn(db.NewDelete().Model((*M)(nil))).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
