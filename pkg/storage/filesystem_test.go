package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("roadmap:students_database", []byte(`[1]`)))
	require.NoError(t, store.Save("roadmap:students_database", []byte(`[1,2]`)))

	data, err := store.Read("roadmap:students_database")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"roadmap:students_database"}, names)

	require.NoError(t, store.Delete("roadmap:students_database"))
	require.NoError(t, store.Delete("roadmap:students_database"))

	_, err = store.Read("roadmap:students_database")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageKeepsNamesInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	for _, name := range []string{"..", "../escape", "a/b", ".hidden"} {
		path := store.Path(name)
		assert.Equal(t, dir, filepath.Dir(path), name)
	}

	require.NoError(t, store.Save("../escape", []byte("x")))
	data, err := store.Read("../escape")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
