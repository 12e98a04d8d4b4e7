package kvstore

import (
	"encoding/json"
	"sync"
	"time"
)

// Change describes a completed write or removal of one key. Value is nil
// when the key was removed.
type Change struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value,omitempty"`
	At     time.Time       `json:"at"`
	Origin string          `json:"origin,omitempty"`
}

// Bus fans out changes to in-process subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the change.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewBus creates a bus whose subscriptions buffer up to buffer changes.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscription receives changes for a set of keys, or all keys when empty.
type Subscription struct {
	C    <-chan Change
	ch   chan Change
	keys map[string]struct{}
	bus  *Bus
	once sync.Once
}

// Subscribe registers interest in keys.
func (b *Bus) Subscribe(keys ...string) *Subscription {
	ch := make(chan Change, b.buffer)
	sub := &Subscription{C: ch, ch: ch, bus: b}
	if len(keys) > 0 {
		sub.keys = make(map[string]struct{}, len(keys))
		for _, key := range keys {
			sub.keys[key] = struct{}{}
		}
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish delivers change to every interested subscriber and returns how many
// received it.
func (b *Bus) Publish(change Change) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for sub := range b.subs {
		if !sub.Wants(change.Key) {
			continue
		}
		select {
		case sub.ch <- change:
			delivered++
		default:
		}
	}
	return delivered
}

// Len reports the number of open subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Wants reports whether the subscription follows key.
func (s *Subscription) Wants(key string) bool {
	if s.keys == nil {
		return true
	}
	_, ok := s.keys[key]
	return ok
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		close(s.ch)
		s.bus.mu.Unlock()
	})
}
