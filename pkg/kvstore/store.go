package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store wraps a Backend with namespacing, per-key locking, change
// notification and fail-soft reads. A Store without a backend behaves as
// unavailable storage: reads miss and writes fail with ErrUnavailable.
type Store struct {
	backend   Backend
	namespace string
	bus       *Bus
	observer  Observer
	logger    *zap.Logger
	origin    string

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Option customises a Store.
type Option func(*Store)

// WithNamespace prefixes every backend key with ns.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithBus publishes every successful write to bus.
func WithBus(bus *Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithObserver reports backend operation timings.
func WithObserver(observer Observer) Option {
	return func(s *Store) { s.observer = observer }
}

// WithLogger sets the logger used for fail-soft diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		origin:  uuid.NewString(),
		locks:   make(map[string]*keyLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = NewBus(0)
	}
	return s
}

// Unavailable returns a Store with no backing storage.
func Unavailable(opts ...Option) *Store {
	return New(nil, opts...)
}

// Available reports whether the store has a backend.
func (s *Store) Available() bool {
	return s.backend != nil
}

// Bus exposes the change bus.
func (s *Store) Bus() *Bus {
	return s.bus
}

// Get returns the raw document for key. Missing keys, unavailable storage and
// backend failures all report false; failures are logged.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.Fetch(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			s.logger.Warn("kvstore read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, ok
}

// Fetch is Get without the fail-soft behaviour: backend failures and
// unavailable storage are returned as errors, a missing key is not.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	if s.backend == nil {
		s.observe("get", "unavailable", time.Now())
		return nil, false, ErrUnavailable
	}
	start := time.Now()
	raw, ok, err := s.backend.Get(ctx, s.fullKey(key))
	if err != nil {
		s.observe("get", "error", start)
		return nil, false, err
	}
	if !ok {
		s.observe("get", "miss", start)
		return nil, false, nil
	}
	s.observe("get", "hit", start)
	return raw, true, nil
}

// Put overwrites key with raw and publishes the change.
func (s *Store) Put(ctx context.Context, key string, raw []byte) error {
	if s.backend == nil {
		s.observe("set", "unavailable", time.Now())
		return ErrUnavailable
	}
	start := time.Now()
	if err := s.backend.Set(ctx, s.fullKey(key), raw); err != nil {
		s.observe("set", "error", start)
		return err
	}
	s.observe("set", "ok", start)
	s.announce(ctx, Change{Key: key, Value: json.RawMessage(raw), At: time.Now().UTC(), Origin: s.origin})
	return nil
}

// Delete removes key and publishes the removal.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.backend == nil {
		s.observe("delete", "unavailable", time.Now())
		return ErrUnavailable
	}
	start := time.Now()
	if err := s.backend.Delete(ctx, s.fullKey(key)); err != nil {
		s.observe("delete", "error", start)
		return err
	}
	s.observe("delete", "ok", start)
	s.announce(ctx, Change{Key: key, At: time.Now().UTC(), Origin: s.origin})
	return nil
}

// Lock serialises read-modify-write cycles on key within this process and
// returns the matching unlock func.
func (s *Store) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// Relay forwards changes written by other processes onto the local bus when
// the backend supports it. It blocks until ctx is cancelled.
func (s *Store) Relay(ctx context.Context) error {
	relay, ok := s.backend.(Relay)
	if !ok {
		<-ctx.Done()
		return nil
	}
	err := relay.Listen(ctx, func(change Change) {
		if change.Origin == s.origin {
			return
		}
		change.Key = s.localKey(change.Key)
		s.bus.Publish(change)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) announce(ctx context.Context, change Change) {
	s.bus.Publish(change)
	relay, ok := s.backend.(Relay)
	if !ok {
		return
	}
	remote := change
	remote.Key = s.fullKey(change.Key)
	if err := relay.Announce(ctx, remote); err != nil {
		s.logger.Warn("kvstore change relay failed", zap.String("key", change.Key), zap.Error(err))
	}
}

func (s *Store) fullKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) localKey(key string) string {
	if s.namespace == "" {
		return key
	}
	prefix := s.namespace + ":"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}

func (s *Store) observe(op, result string, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveStoreOp(op, result, time.Since(start).Seconds())
}
