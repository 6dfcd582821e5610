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

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/marlowe-io/querying"
	"github.com/marlowe-io/querying/database"
	"github.com/marlowe-io/querying/types"
)

type baseRepository[T any] struct {
	db bun.IDB
}

// NewRepository returns a generic repository over the provided Bun handle.
// Both *bun.DB and bun.Tx satisfy bun.IDB.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return &baseRepository[T]{db: db}
}

// NewDefaultRepository returns a repository bound to the global connection
// opened by database.InitDB.
func NewDefaultRepository[T any]() Repository[T] {
	return NewRepository[T](database.GetDB())
}

func (r *baseRepository[T]) WithTx(tx bun.Tx) Repository[T] {
	return &baseRepository[T]{db: tx}
}

func (r *baseRepository[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepository[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepository[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepository[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepository[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepository[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepository[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Clause, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepository[T]) Find(ctx context.Context, fn querying.QueryFunc[T, T]) ([]T, error) {
	return querying.Query[T, T](r.db, fn).All(ctx)
}

func (r *baseRepository[T]) FindZeroOrOne(ctx context.Context, fn querying.QueryFunc[T, T]) (*T, error) {
	return querying.ZeroOrOne(ctx, querying.Query[T, T](r.db, fn))
}

func (r *baseRepository[T]) Count(ctx context.Context, fn querying.QueryFunc[T, T]) (int, error) {
	if fn == nil {
		fn = func(q *bun.SelectQuery) *bun.SelectQuery { return q }
	}
	return querying.Query[T, T](r.db, fn).Count(ctx)
}

func (r *baseRepository[T]) Exists(ctx context.Context, fn querying.QueryFunc[T, T]) (bool, error) {
	if fn == nil {
		fn = func(q *bun.SelectQuery) *bun.SelectQuery { return q }
	}
	return querying.Query[T, T](r.db, fn).Exists(ctx)
}

func (r *baseRepository[T]) UpdateWhere(ctx context.Context, fn querying.UpdateFunc[T]) (int64, error) {
	return querying.Update[T](ctx, r.db, fn)
}

func (r *baseRepository[T]) DeleteWhere(ctx context.Context, fn querying.DeleteFunc[T]) (int64, error) {
	return querying.Delete[T](ctx, r.db, fn)
}

func (r *baseRepository[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if pageRequest.Filter() != nil {
		query = query.Where(pageRequest.Filter().Clause, pageRequest.Filter().Args...)
	}

	pagination := types.NewPagination[T](pageRequest.Page(), pageRequest.PageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}

	err = query.
		Offset(pageRequest.Offset()).
		Limit(pageRequest.PageSize()).
		Order(pageRequest.Orders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepository[T]) Create(ctx context.Context, entity ...*T) error {
	entities := toSlice(entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepository[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var entity T
	_, err := r.db.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *baseRepository[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	entities := toSlice(entity...)
	features := r.db.Dialect().Features()

	switch {
	case features.Has(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, fields, conflictKeys, entities)
	case features.Has(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, fields, entities)
	default:
		return r.upsertFallback(ctx, entities)
	}
}

// postgres and sqlite: INSERT ... ON CONFLICT (...) DO UPDATE.
func (r *baseRepository[T]) upsertOnConflict(ctx context.Context, fields []string, conflictKeys []string, entities []*T) error {
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	assignments := make([]string, 0, len(fields))
	for _, field := range fields {
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", bun.Ident(field), bun.Ident(field)))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("CONFLICT (" + strings.Join(conflictKeys, ",") + ") DO UPDATE").
		Set(strings.Join(assignments, ", ")).
		Exec(ctx)
	return err
}

// mysql: INSERT ... ON DUPLICATE KEY UPDATE.
func (r *baseRepository[T]) upsertOnDuplicateKey(ctx context.Context, fields []string, entities []*T) error {
	assignments := make([]string, 0, len(fields))
	for _, field := range fields {
		assignments = append(assignments, fmt.Sprintf("%s = VALUES(%s)", bun.Ident(field), bun.Ident(field)))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(assignments, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepository[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
			if _, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}

func toSlice[T any](entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}
