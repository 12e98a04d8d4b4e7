package kvstore

import (
	"context"
	"errors"

	"github.com/noah-isme/career-roadmap-api/pkg/storage"
)

// FileBackend stores one file per key in a directory.
type FileBackend struct {
	files *storage.LocalStorage
}

// NewFileBackend prepares dir and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	files, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileBackend{files: files}, nil
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := f.files.Read(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	return f.files.Save(key, value)
}

func (f *FileBackend) Delete(_ context.Context, key string) error {
	return f.files.Delete(key)
}

func (f *FileBackend) Close() error { return nil }
