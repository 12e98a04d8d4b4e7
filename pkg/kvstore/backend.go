// Package kvstore is a durable, string-keyed JSON document store. Every
// document is read and written whole; there are no transactions across keys.
package kvstore

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by writes against a store that has no backend.
var ErrUnavailable = errors.New("kvstore: storage unavailable")

// Backend persists raw documents by key.
type Backend interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the whole value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Relay is implemented by backends that can propagate change notifications
// to other processes sharing the same storage.
type Relay interface {
	Announce(ctx context.Context, change Change) error
	// Listen delivers remote changes until ctx is cancelled.
	Listen(ctx context.Context, deliver func(Change)) error
}

// Observer receives timing for each backend operation.
type Observer interface {
	ObserveStoreOp(op, result string, seconds float64)
}
