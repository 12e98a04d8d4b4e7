package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// FeedbackRepository keeps at most one generated feedback per project.
type FeedbackRepository struct {
	doc    *kvstore.Document[map[int][]models.ProjectFeedback]
	logger *zap.Logger
	now    func() time.Time
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(store *kvstore.Store, logger *zap.Logger) *FeedbackRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackRepository{
		doc: kvstore.NewDocument(store, KeyProjectFeedback, func() map[int][]models.ProjectFeedback {
			return map[int][]models.ProjectFeedback{}
		}),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns every feedback stored for the student.
func (r *FeedbackRepository) List(ctx context.Context, number int) []models.ProjectFeedback {
	db, _ := r.doc.Load(ctx)
	list := db[number]
	if list == nil {
		return []models.ProjectFeedback{}
	}
	return list
}

// Get returns the feedback of one project.
func (r *FeedbackRepository) Get(ctx context.Context, number int, projectID string) (models.ProjectFeedback, bool) {
	for _, fb := range r.List(ctx, number) {
		if fb.ProjectID == projectID {
			return fb, true
		}
	}
	return models.ProjectFeedback{}, false
}

// Set stores text as the feedback of the project, replacing any previous one.
func (r *FeedbackRepository) Set(ctx context.Context, number int, projectID, text string) (models.ProjectFeedback, bool) {
	entry := models.ProjectFeedback{ProjectID: projectID, Feedback: text, GeneratedAt: r.now()}
	_, err := r.doc.Update(ctx, func(db *map[int][]models.ProjectFeedback) bool {
		if *db == nil {
			*db = map[int][]models.ProjectFeedback{}
		}
		kept := make([]models.ProjectFeedback, 0, len((*db)[number])+1)
		for _, fb := range (*db)[number] {
			if fb.ProjectID != projectID {
				kept = append(kept, fb)
			}
		}
		(*db)[number] = append(kept, entry)
		return true
	})
	if err != nil {
		r.logger.Warn("feedback write failed", zap.Int("student_number", number), zap.String("project_id", projectID), zap.Error(err))
		return models.ProjectFeedback{}, false
	}
	return entry, true
}

// Delete removes the feedback of one project.
func (r *FeedbackRepository) Delete(ctx context.Context, number int, projectID string) bool {
	changed, err := r.doc.Update(ctx, func(db *map[int][]models.ProjectFeedback) bool {
		list := (*db)[number]
		for i := range list {
			if list[i].ProjectID == projectID {
				(*db)[number] = append(list[:i], list[i+1:]...)
				return true
			}
		}
		return false
	})
	if err != nil {
		r.logger.Warn("feedback write failed", zap.Int("student_number", number), zap.String("project_id", projectID), zap.Error(err))
		return false
	}
	return changed
}
