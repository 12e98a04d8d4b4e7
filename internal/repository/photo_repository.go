package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// PhotoRepository maps student numbers to data-URI encoded images.
type PhotoRepository struct {
	doc    *kvstore.Document[map[int]string]
	logger *zap.Logger
}

// NewPhotoRepository constructs a PhotoRepository.
func NewPhotoRepository(store *kvstore.Store, logger *zap.Logger) *PhotoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoRepository{
		doc:    kvstore.NewDocument(store, KeyPhotos, func() map[int]string { return map[int]string{} }),
		logger: logger,
	}
}

// GetAll returns every stored photo keyed by student number.
func (r *PhotoRepository) GetAll(ctx context.Context) map[int]string {
	photos, _ := r.doc.Load(ctx)
	if photos == nil {
		photos = map[int]string{}
	}
	return photos
}

// Get returns the photo for number.
func (r *PhotoRepository) Get(ctx context.Context, number int) (string, bool) {
	photo, ok := r.GetAll(ctx)[number]
	return photo, ok
}

// Set overwrites the photo for number without validating it.
func (r *PhotoRepository) Set(ctx context.Context, number int, data string) bool {
	_, err := r.doc.Update(ctx, func(photos *map[int]string) bool {
		if *photos == nil {
			*photos = map[int]string{}
		}
		(*photos)[number] = data
		return true
	})
	if err != nil {
		r.logger.Warn("photo write failed", zap.Int("student_number", number), zap.Error(err))
		return false
	}
	return true
}
