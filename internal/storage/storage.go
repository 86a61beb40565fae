// Package storage provides the key/value persistence port for nexus
// and its backends. All application payloads (shortcuts, icon cache,
// notes, todos, settings) live under distinct keys inside one
// quota-constrained store.
package storage

import "errors"

// ErrQuotaExceeded is returned by Backend.Set when a write would push
// the total stored bytes over the configured budget. It is the Go
// rendering of the browser's QuotaExceededError and is the only
// storage error callers are expected to recover from.
var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// Backend is the storage port. Implementations are single-process,
// single-writer: read-modify-write sequences on an aggregate value are
// only safe because no concurrent writer exists. Callers that mutate
// shared aggregates must serialize their writes (see favicon.Cache).
type Backend interface {
	// Get returns the raw value for key and whether it was present.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, returning ErrQuotaExceeded when the
	// write does not fit in the remaining budget.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Keys lists all stored keys.
	Keys() ([]string, error)

	// Close releases backend resources.
	Close() error
}
