package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Document is a typed view of one key. Loads never fail: absent, unreadable
// or unparseable documents yield the default value. Seed and Update are
// stricter and abort when the backend cannot be read.
type Document[T any] struct {
	store *Store
	key   string
	def   func() T
}

// NewDocument binds key on store to type T. def builds a fresh default value
// each time one is needed; a nil def yields the zero value.
func NewDocument[T any](store *Store, key string, def func() T) *Document[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	return &Document[T]{store: store, key: key, def: def}
}

// Key returns the unqualified storage key.
func (d *Document[T]) Key() string {
	return d.key
}

// Load decodes the stored document. The boolean is false when the default was
// returned instead of stored data.
func (d *Document[T]) Load(ctx context.Context) (T, bool) {
	raw, ok := d.store.Get(ctx, d.key)
	if !ok {
		return d.def(), false
	}
	return d.decode(raw)
}

// loadStrict is Load for write paths: a backend failure is returned instead
// of being masked by the default value.
func (d *Document[T]) loadStrict(ctx context.Context) (T, error) {
	raw, ok, err := d.store.Fetch(ctx, d.key)
	if err != nil {
		return d.def(), fmt.Errorf("read %s: %w", d.key, err)
	}
	if !ok {
		return d.def(), nil
	}
	value, _ := d.decode(raw)
	return value, nil
}

func (d *Document[T]) decode(raw []byte) (T, bool) {
	start := time.Now()
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		d.store.observe("decode", "fallback", start)
		d.store.logger.Warn("kvstore document unparseable, using default", zap.String("key", d.key), zap.Error(err))
		return d.def(), false
	}
	return value, true
}

// Exists reports whether any value, parseable or not, is stored under the key.
func (d *Document[T]) Exists(ctx context.Context) bool {
	_, ok := d.store.Get(ctx, d.key)
	return ok
}

// Save encodes and overwrites the document.
func (d *Document[T]) Save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	return d.store.Put(ctx, d.key, raw)
}

// Clear removes the document.
func (d *Document[T]) Clear(ctx context.Context) error {
	return d.store.Delete(ctx, d.key)
}

// Seed stores value only when nothing is stored under the key yet. It
// reports whether value was written.
func (d *Document[T]) Seed(ctx context.Context, value T) (bool, error) {
	unlock := d.store.Lock(d.key)
	defer unlock()
	_, exists, err := d.store.Fetch(ctx, d.key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", d.key, err)
	}
	if exists {
		return false, nil
	}
	if err := d.Save(ctx, value); err != nil {
		return false, err
	}
	return true, nil
}

// Update runs a locked read-modify-write cycle. fn mutates the loaded value
// and returns whether it changed anything; unchanged values are not written.
// A failed read aborts the cycle so stored data is never replaced by the
// default.
func (d *Document[T]) Update(ctx context.Context, fn func(*T) bool) (bool, error) {
	unlock := d.store.Lock(d.key)
	defer unlock()
	value, err := d.loadStrict(ctx)
	if err != nil {
		return false, err
	}
	if !fn(&value) {
		return false, nil
	}
	if err := d.Save(ctx, value); err != nil {
		return false, err
	}
	return true, nil
}
