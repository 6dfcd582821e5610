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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/marlowe-io/querying"
	"github.com/marlowe-io/querying/types"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TypedQueryRepository defines operations driven by composition callbacks,
// the repository-shaped surface over the typed query helpers.
type TypedQueryRepository[T any] interface {
	// Find returns the rows matched by the composed select.
	Find(ctx context.Context, fn querying.QueryFunc[T, T]) ([]T, error)

	// FindZeroOrOne returns the single matched row, nil when nothing
	// matches, or *querying.MoreThanOneResultError on two or more matches.
	FindZeroOrOne(ctx context.Context, fn querying.QueryFunc[T, T]) (*T, error)

	// Count returns the number of rows matched by the composed select;
	// a nil callback counts the whole table.
	Count(ctx context.Context, fn querying.QueryFunc[T, T]) (int, error)

	// Exists reports whether the composed select matches at least one row.
	Exists(ctx context.Context, fn querying.QueryFunc[T, T]) (bool, error)

	// UpdateWhere executes the composed update and returns affected rows.
	UpdateWhere(ctx context.Context, fn querying.UpdateFunc[T]) (int64, error)

	// DeleteWhere executes the composed delete and returns affected rows.
	DeleteWhere(ctx context.Context, fn querying.DeleteFunc[T]) (int64, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD, typed query, and pagination operations and
// exposes Bun query builders for advanced use cases. WithTx rebinds the
// repository to a transaction; transaction boundaries stay with the caller.
type Repository[T any] interface {
	CrudRepository[T]
	TypedQueryRepository[T]
	PageQueryRepository[T]
	WithTx(tx bun.Tx) Repository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
