package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

// RecentActivities is how many feed entries the dashboard shows.
const RecentActivities = 5

const dateLayout = "2006-01-02"

type dashboardStore interface {
	Goals(ctx context.Context, number int, date string) []models.DailyGoal
	AddGoal(ctx context.Context, number int, content, date string) (models.DailyGoal, bool)
	ToggleGoal(ctx context.Context, number int, id string) (models.DailyGoal, bool)
	DeleteGoal(ctx context.Context, number int, id string) bool
	Roadmap(ctx context.Context, number int) []models.RoadmapProgress
	SetRoadmapEntry(ctx context.Context, number int, entry models.RoadmapProgress) bool
	Activities(ctx context.Context, number, limit int) []models.Activity
	RecordActivity(ctx context.Context, number int, kind models.ActivityType, title, description string) (models.Activity, bool)
}

type feedbackSummarizer interface {
	FeedbackSummary(ctx context.Context, number int) []models.FeedbackItem
	ListProjects(ctx context.Context, number int) ([]models.Project, error)
}

var (
	errGoalAbsent   = appErrors.Clone(appErrors.ErrNotFound, "goal not found")
	errGoalEmpty    = appErrors.Clone(appErrors.ErrValidation, "목표 내용을 입력해주세요.")
	errRoadmapGrade = appErrors.Clone(appErrors.ErrValidation, "grade must be 1, 2 or 3")
)

// DashboardService serves a student's goals, roadmap and activity feed.
type DashboardService struct {
	students  studentLookup
	store     dashboardStore
	records   feedbackSummarizer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students studentLookup, store dashboardStore, records feedbackSummarizer, validate *validator.Validate, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardService{
		students:  students,
		store:     store,
		records:   records,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *DashboardService) today() string {
	return s.now().Format(dateLayout)
}

// Dashboard aggregates today's goals, the roadmap, recent activity and
// stored project feedback for the student.
func (s *DashboardService) Dashboard(ctx context.Context, number int) (models.Dashboard, error) {
	student, ok := s.students.Get(ctx, number)
	if !ok {
		return models.Dashboard{}, errStudentAbsent
	}
	projects, err := s.records.ListProjects(ctx, number)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		Student:    student,
		Goals:      s.store.Goals(ctx, number, s.today()),
		Roadmap:    s.store.Roadmap(ctx, number),
		Activities: s.store.Activities(ctx, number, RecentActivities),
		Feedback:   s.records.FeedbackSummary(ctx, number),
		Projects:   len(projects),
	}, nil
}

// Goals lists goals, optionally restricted to one date.
func (s *DashboardService) Goals(ctx context.Context, number int, date string) ([]models.DailyGoal, error) {
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be yyyy-MM-dd")
		}
	}
	return s.store.Goals(ctx, number, date), nil
}

// AddGoal stores a new open goal. Content is trimmed and must not be empty.
func (s *DashboardService) AddGoal(ctx context.Context, number int, req dto.CreateGoalRequest) (models.DailyGoal, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return models.DailyGoal{}, errGoalEmpty
	}
	if err := s.validator.Struct(req); err != nil {
		return models.DailyGoal{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}
	date := req.Date
	if date == "" {
		date = s.today()
	}
	goal, ok := s.store.AddGoal(ctx, number, req.Content, date)
	if !ok {
		return models.DailyGoal{}, errWriteFailed
	}
	return goal, nil
}

// ToggleGoal flips a goal; completing it is recorded in the activity feed.
func (s *DashboardService) ToggleGoal(ctx context.Context, number int, id string) (models.DailyGoal, error) {
	goal, ok := s.store.ToggleGoal(ctx, number, id)
	if !ok {
		return models.DailyGoal{}, errGoalAbsent
	}
	if goal.IsCompleted {
		s.store.RecordActivity(ctx, number, models.ActivityGoal, goal.Content, "오늘의 목표를 완료했습니다.")
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *DashboardService) DeleteGoal(ctx context.Context, number int, id string) error {
	if !s.store.DeleteGoal(ctx, number, id) {
		return errGoalAbsent
	}
	return nil
}

// Roadmap returns the student's roadmap progress.
func (s *DashboardService) Roadmap(ctx context.Context, number int) []models.RoadmapProgress {
	return s.store.Roadmap(ctx, number)
}

// UpdateRoadmap edits one school year of the roadmap.
func (s *DashboardService) UpdateRoadmap(ctx context.Context, number, grade int, req dto.UpdateRoadmapRequest) (models.RoadmapProgress, error) {
	if grade < 1 || grade > 3 {
		return models.RoadmapProgress{}, errRoadmapGrade
	}
	if err := s.validator.Struct(req); err != nil {
		return models.RoadmapProgress{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "percentage must be between 0 and 100")
	}

	entry := models.RoadmapProgress{Grade: grade}
	for _, existing := range s.store.Roadmap(ctx, number) {
		if existing.Grade == grade {
			entry = existing
		}
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	entry.Percentage = *req.Percentage

	if !s.store.SetRoadmapEntry(ctx, number, entry) {
		return models.RoadmapProgress{}, errWriteFailed
	}
	s.store.RecordActivity(ctx, number, models.ActivityRoadmap, entry.Title, fmt.Sprintf("진행률이 %d%%로 업데이트되었습니다.", entry.Percentage))
	return entry, nil
}

// Activities returns up to limit feed entries, newest first.
func (s *DashboardService) Activities(ctx context.Context, number, limit int) []models.Activity {
	if limit <= 0 || limit > models.MaxActivities {
		limit = models.MaxActivities
	}
	return s.store.Activities(ctx, number, limit)
}
