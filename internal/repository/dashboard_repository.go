package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
)

// DashboardRepository stores the per-student daily goals, roadmap progress and
// activity feed documents.
type DashboardRepository struct {
	goals      *kvstore.Document[map[int][]models.DailyGoal]
	roadmap    *kvstore.Document[map[int][]models.RoadmapProgress]
	activities *kvstore.Document[map[int][]models.Activity]
	logger     *zap.Logger

	newID func() string
	now   func() time.Time
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(store *kvstore.Store, logger *zap.Logger) *DashboardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardRepository{
		goals:      kvstore.NewDocument(store, KeyDailyGoals, func() map[int][]models.DailyGoal { return map[int][]models.DailyGoal{} }),
		roadmap:    kvstore.NewDocument(store, KeyRoadmapProgress, func() map[int][]models.RoadmapProgress { return map[int][]models.RoadmapProgress{} }),
		activities: kvstore.NewDocument(store, KeyActivities, func() map[int][]models.Activity { return map[int][]models.Activity{} }),
		logger:     logger,
		newID:      newRecordID,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Goals returns the student's goals, restricted to date when it is not empty.
func (r *DashboardRepository) Goals(ctx context.Context, number int, date string) []models.DailyGoal {
	db, _ := r.goals.Load(ctx)
	goals := make([]models.DailyGoal, 0, len(db[number]))
	for _, goal := range db[number] {
		if date == "" || goal.Date == date {
			goals = append(goals, goal)
		}
	}
	return goals
}

// AddGoal appends a new open goal for date.
func (r *DashboardRepository) AddGoal(ctx context.Context, number int, content, date string) (models.DailyGoal, bool) {
	goal := models.DailyGoal{ID: r.newID(), Content: content, Date: date}
	_, err := r.goals.Update(ctx, func(db *map[int][]models.DailyGoal) bool {
		if *db == nil {
			*db = map[int][]models.DailyGoal{}
		}
		(*db)[number] = append((*db)[number], goal)
		return true
	})
	if err != nil {
		r.logger.Warn("goal write failed", zap.Int("student_number", number), zap.Error(err))
		return models.DailyGoal{}, false
	}
	return goal, true
}

// ToggleGoal flips completion of one goal and returns its new state.
func (r *DashboardRepository) ToggleGoal(ctx context.Context, number int, id string) (models.DailyGoal, bool) {
	var toggled models.DailyGoal
	changed, err := r.goals.Update(ctx, func(db *map[int][]models.DailyGoal) bool {
		list := (*db)[number]
		for i := range list {
			if list[i].ID == id {
				list[i].IsCompleted = !list[i].IsCompleted
				toggled = list[i]
				return true
			}
		}
		return false
	})
	if err != nil {
		r.logger.Warn("goal write failed", zap.Int("student_number", number), zap.Error(err))
		return models.DailyGoal{}, false
	}
	return toggled, changed
}

// DeleteGoal removes one goal.
func (r *DashboardRepository) DeleteGoal(ctx context.Context, number int, id string) bool {
	changed, err := r.goals.Update(ctx, func(db *map[int][]models.DailyGoal) bool {
		list := (*db)[number]
		for i := range list {
			if list[i].ID == id {
				(*db)[number] = append(list[:i], list[i+1:]...)
				return true
			}
		}
		return false
	})
	if err != nil {
		r.logger.Warn("goal write failed", zap.Int("student_number", number), zap.Error(err))
		return false
	}
	return changed
}

// Roadmap returns the student's roadmap, or the default roadmap when none was stored.
func (r *DashboardRepository) Roadmap(ctx context.Context, number int) []models.RoadmapProgress {
	db, _ := r.roadmap.Load(ctx)
	if entries, ok := db[number]; ok && len(entries) > 0 {
		return entries
	}
	return models.DefaultRoadmap()
}

// SetRoadmapEntry replaces the entry for entry.Grade, materialising the
// default roadmap first when the student has none.
func (r *DashboardRepository) SetRoadmapEntry(ctx context.Context, number int, entry models.RoadmapProgress) bool {
	_, err := r.roadmap.Update(ctx, func(db *map[int][]models.RoadmapProgress) bool {
		if *db == nil {
			*db = map[int][]models.RoadmapProgress{}
		}
		entries := (*db)[number]
		if len(entries) == 0 {
			entries = models.DefaultRoadmap()
		}
		replaced := false
		for i := range entries {
			if entries[i].Grade == entry.Grade {
				entries[i] = entry
				replaced = true
			}
		}
		if !replaced {
			entries = append(entries, entry)
		}
		(*db)[number] = entries
		return true
	})
	if err != nil {
		r.logger.Warn("roadmap write failed", zap.Int("student_number", number), zap.Error(err))
		return false
	}
	return true
}

// Activities returns up to limit activities, newest first. A limit <= 0
// returns all stored activities.
func (r *DashboardRepository) Activities(ctx context.Context, number, limit int) []models.Activity {
	db, _ := r.activities.Load(ctx)
	list := db[number]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		return []models.Activity{}
	}
	return list
}

// RecordActivity prepends an activity and trims the feed to MaxActivities.
func (r *DashboardRepository) RecordActivity(ctx context.Context, number int, kind models.ActivityType, title, description string) (models.Activity, bool) {
	activity := models.Activity{
		ID:          r.newID(),
		Type:        kind,
		Title:       title,
		Description: description,
		Timestamp:   r.now(),
	}
	_, err := r.activities.Update(ctx, func(db *map[int][]models.Activity) bool {
		if *db == nil {
			*db = map[int][]models.Activity{}
		}
		list := append([]models.Activity{activity}, (*db)[number]...)
		if len(list) > models.MaxActivities {
			list = list[:models.MaxActivities]
		}
		(*db)[number] = list
		return true
	})
	if err != nil {
		r.logger.Warn("activity write failed", zap.Int("student_number", number), zap.Error(err))
		return models.Activity{}, false
	}
	return activity, true
}
