package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoRepository(t *testing.T) {
	store, backend := newTestStore()
	repo := NewPhotoRepository(store, nil)
	ctx := context.Background()

	assert.Empty(t, repo.GetAll(ctx))
	_, ok := repo.Get(ctx, 1)
	assert.False(t, ok)

	require.True(t, repo.Set(ctx, 1, "data:image/png;base64,AAAA"))
	require.True(t, repo.Set(ctx, 1, "data:image/png;base64,BBBB"))
	require.True(t, repo.Set(ctx, 2, "not even an image"))

	photo, ok := repo.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,BBBB", photo)
	assert.Len(t, repo.GetAll(ctx), 2)

	raw, _ := backend.Raw("test:" + KeyPhotos)
	assert.JSONEq(t, `{"1":"data:image/png;base64,BBBB","2":"not even an image"}`, raw)
}

func TestPhotoSetKeepsStoredPhotosOnReadFailure(t *testing.T) {
	store, backend := newFlakyStore()
	repo := NewPhotoRepository(store, nil)
	ctx := context.Background()
	for number := 1; number <= 3; number++ {
		require.True(t, repo.Set(ctx, number, "photo"))
	}

	backend.failNextRead()
	assert.False(t, repo.Set(ctx, 4, "photo"))
	assert.Len(t, repo.GetAll(ctx), 3)

	require.True(t, repo.Set(ctx, 4, "photo"))
	assert.Len(t, repo.GetAll(ctx), 4)
}
