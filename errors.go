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

import "errors"

// ErrMoreThanOneResult matches any cardinality violation via errors.Is.
var ErrMoreThanOneResult = errors.New("more than one result")

// MoreThanOneResultError reports a query that matched two or more rows where
// the caller declared at most one. It carries the rendered SQL of the
// offending query and signals a broken uniqueness assumption; it is never
// retried or recovered from inside this library.
type MoreThanOneResultError struct {
	// Query is the offending statement rendered as SQL.
	Query string
}

func (e *MoreThanOneResultError) Error() string {
	return "only 0 or 1 results are accepted from query: " + e.Query
}

func (e *MoreThanOneResultError) Is(target error) bool {
	return target == ErrMoreThanOneResult
}
