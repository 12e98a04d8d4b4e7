package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

func newTestStore() (*kvstore.Store, *kvstore.MemoryBackend) {
	backend := kvstore.NewMemoryBackend()
	return kvstore.New(backend, kvstore.WithNamespace("test")), backend
}

// flakyBackend fails the next failReads reads.
type flakyBackend struct {
	*kvstore.MemoryBackend
	mu        sync.Mutex
	failReads int
}

func (f *flakyBackend) failNextRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads++
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	if f.failReads > 0 {
		f.failReads--
		f.mu.Unlock()
		return nil, false, errors.New("read tcp: connection reset by peer")
	}
	f.mu.Unlock()
	return f.MemoryBackend.Get(ctx, key)
}

func newFlakyStore() (*kvstore.Store, *flakyBackend) {
	backend := &flakyBackend{MemoryBackend: kvstore.NewMemoryBackend()}
	return kvstore.New(backend, kvstore.WithNamespace("test")), backend
}
