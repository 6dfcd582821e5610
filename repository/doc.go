// Package repository provides a generic repository abstraction over the
// typed query helpers: CRUD, callback-driven finds with zero-or-one
// narrowing, pagination, upsert, and transaction rebinding.
package repository
