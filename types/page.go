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

package types

// QueryFilter describes a WHERE clause fragment and its argument values.
type QueryFilter struct {
	Clause string
	Args   []interface{}
}

// NewQueryFilter creates a query filter from a clause and its args.
func NewQueryFilter(clause string, args ...interface{}) *QueryFilter {
	return &QueryFilter{Clause: clause, Args: args}
}

// PageRequest describes pagination with an optional filter and ordering.
// Orders use Bun's column order syntax, e.g. "id ASC", "name DESC".
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []string
}

// NewPageRequest constructs a PageRequest with filter and ordering.
func NewPageRequest(page, pageSize int, filter *QueryFilter, orders []string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filter: filter, orders: orders}
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, nil)
}

// NewPageRequestWithFilter constructs a PageRequest with a filter only.
func NewPageRequestWithFilter(page, pageSize int, filter *QueryFilter) *PageRequest {
	return NewPageRequest(page, pageSize, filter, nil)
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page, pageSize int, orders []string) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// Page returns the 1-based page number, defaulting to 1.
func (p *PageRequest) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// PageSize returns the page size, defaulting to 10.
func (p *PageRequest) PageSize() int {
	if p.pageSize < 1 {
		return 10
	}
	return p.pageSize
}

// Offset returns the row offset for the requested page.
func (p *PageRequest) Offset() int {
	return (p.Page() - 1) * p.PageSize()
}

// Filter returns the optional WHERE filter, possibly nil.
func (p *PageRequest) Filter() *QueryFilter {
	return p.filter
}

// Orders returns the order expressions, possibly empty.
func (p *PageRequest) Orders() []string {
	return p.orders
}

// Pagination holds one page of items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewPagination constructs an empty page container for the given request.
func NewPagination[T any](page, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Items: make([]*T, 0)}
}
