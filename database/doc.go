// Package database provides connection management for Bun: configuration,
// per-dialect bootstrap, pooling, health checks, query logging hooks, and
// driver error classification.
package database
