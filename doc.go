// Package querying removes boilerplate from Bun's query builder: typed
// select, update, and delete construction against a root model via
// caller-supplied composition callbacks, and a zero-or-one accessor that
// rejects ambiguous multi-row results.
package querying
