package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileBackend(dir)
	require.NoError(t, err)
	store := New(first, WithNamespace("roadmap"))
	require.NoError(t, store.Put(ctx, "logged_in_student", []byte(`{"number":1}`)))

	second, err := NewFileBackend(dir)
	require.NoError(t, err)
	reopened := New(second, WithNamespace("roadmap"))
	raw, ok := reopened.Get(ctx, "logged_in_student")
	require.True(t, ok)
	assert.JSONEq(t, `{"number":1}`, string(raw))

	require.NoError(t, reopened.Delete(ctx, "logged_in_student"))
	_, ok = store.Get(ctx, "logged_in_student")
	assert.False(t, ok)
}
