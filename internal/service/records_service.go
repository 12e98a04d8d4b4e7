package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

type recordStore[T any, P any] interface {
	List(ctx context.Context, number int) []T
	Get(ctx context.Context, number int, id string) (T, bool)
	Add(ctx context.Context, number int, record T) (T, bool)
	Update(ctx context.Context, number int, id string, patch P) bool
	Delete(ctx context.Context, number int, id string) bool
}

type feedbackStore interface {
	List(ctx context.Context, number int) []models.ProjectFeedback
	Get(ctx context.Context, number int, projectID string) (models.ProjectFeedback, bool)
	Set(ctx context.Context, number int, projectID, text string) (models.ProjectFeedback, bool)
	Delete(ctx context.Context, number int, projectID string) bool
}

type activityRecorder interface {
	RecordActivity(ctx context.Context, number int, kind models.ActivityType, title, description string) (models.Activity, bool)
}

type studentLookup interface {
	Get(ctx context.Context, number int) (models.Student, bool)
}

var (
	errProjectAbsent    = appErrors.Clone(appErrors.ErrNotFound, "project not found")
	errCounselingAbsent = appErrors.Clone(appErrors.ErrNotFound, "counseling record not found")
	errGradeAbsent      = appErrors.Clone(appErrors.ErrNotFound, "grade record not found")
	errFeedbackAbsent   = appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
)

// RecordsService manages projects, counseling notes and grades of one
// student at a time.
type RecordsService struct {
	students   studentLookup
	projects   recordStore[models.Project, models.ProjectPatch]
	counseling recordStore[models.CounselingRecord, models.CounselingPatch]
	grades     recordStore[models.GradeRecord, models.GradePatch]
	feedback   feedbackStore
	activities activityRecorder
	validator  *validator.Validate
	logger     *zap.Logger
}

// RecordsServiceParams groups the stores used by RecordsService.
type RecordsServiceParams struct {
	Students   studentLookup
	Projects   recordStore[models.Project, models.ProjectPatch]
	Counseling recordStore[models.CounselingRecord, models.CounselingPatch]
	Grades     recordStore[models.GradeRecord, models.GradePatch]
	Feedback   feedbackStore
	Activities activityRecorder
}

// NewRecordsService constructs a RecordsService.
func NewRecordsService(params RecordsServiceParams, validate *validator.Validate, logger *zap.Logger) *RecordsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RecordsService{
		students:   params.Students,
		projects:   params.Projects,
		counseling: params.Counseling,
		grades:     params.Grades,
		feedback:   params.Feedback,
		activities: params.Activities,
		validator:  validate,
		logger:     logger,
	}
}

func (s *RecordsService) requireStudent(ctx context.Context, number int) error {
	if _, ok := s.students.Get(ctx, number); !ok {
		return errStudentAbsent
	}
	return nil
}

func (s *RecordsService) validate(payload interface{}, message string) error {
	if err := s.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

// ListProjects returns the student's projects in insertion order.
func (s *RecordsService) ListProjects(ctx context.Context, number int) ([]models.Project, error) {
	if err := s.requireStudent(ctx, number); err != nil {
		return nil, err
	}
	return s.projects.List(ctx, number), nil
}

// GetProject returns one project.
func (s *RecordsService) GetProject(ctx context.Context, number int, id string) (models.Project, error) {
	project, ok := s.projects.Get(ctx, number, id)
	if !ok {
		return models.Project{}, errProjectAbsent
	}
	return project, nil
}

// AddProject stores a new project and records it in the activity feed.
func (s *RecordsService) AddProject(ctx context.Context, number int, req dto.CreateProjectRequest) (models.Project, error) {
	if err := s.validate(req, "invalid project payload"); err != nil {
		return models.Project{}, err
	}
	if err := s.requireStudent(ctx, number); err != nil {
		return models.Project{}, err
	}
	status := req.Status
	if status == "" {
		status = models.ProjectPlanned
	}
	project, ok := s.projects.Add(ctx, number, models.Project{
		Title:       req.Title,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		DemoURL:     req.DemoURL,
		Status:      status,
		TechStack:   req.TechStack,
	})
	if !ok {
		return models.Project{}, errWriteFailed
	}
	if s.activities != nil {
		s.activities.RecordActivity(ctx, number, models.ActivityProject, project.Title, "프로젝트가 등록되었습니다.")
	}
	return project, nil
}

// UpdateProject merges patch into the project.
func (s *RecordsService) UpdateProject(ctx context.Context, number int, id string, patch models.ProjectPatch) (models.Project, error) {
	if err := s.validate(patch, "invalid project patch"); err != nil {
		return models.Project{}, err
	}
	if _, ok := s.projects.Get(ctx, number, id); !ok {
		return models.Project{}, errProjectAbsent
	}
	if !s.projects.Update(ctx, number, id, patch) {
		return models.Project{}, errWriteFailed
	}
	return s.GetProject(ctx, number, id)
}

// DeleteProject removes the project and then its feedback. The two writes
// are sequential; a failure after the first leaves the feedback behind.
func (s *RecordsService) DeleteProject(ctx context.Context, number int, id string) error {
	if _, ok := s.projects.Get(ctx, number, id); !ok {
		return errProjectAbsent
	}
	if !s.projects.Delete(ctx, number, id) {
		return errWriteFailed
	}
	if _, ok := s.feedback.Get(ctx, number, id); ok && !s.feedback.Delete(ctx, number, id) {
		s.logger.Warn("orphaned project feedback", zap.Int("student_number", number), zap.String("project_id", id))
	}
	return nil
}

// ListCounseling returns counseling records, newest date first.
func (s *RecordsService) ListCounseling(ctx context.Context, number int) ([]models.CounselingRecord, error) {
	if err := s.requireStudent(ctx, number); err != nil {
		return nil, err
	}
	return s.counseling.List(ctx, number), nil
}

// AddCounseling stores a counseling record.
func (s *RecordsService) AddCounseling(ctx context.Context, number int, req dto.CreateCounselingRequest) (models.CounselingRecord, error) {
	if err := s.validate(req, "invalid counseling payload"); err != nil {
		return models.CounselingRecord{}, err
	}
	if err := s.requireStudent(ctx, number); err != nil {
		return models.CounselingRecord{}, err
	}
	record, ok := s.counseling.Add(ctx, number, models.CounselingRecord{
		Date:      req.Date,
		Counselor: req.Counselor,
		Category:  req.Category,
		Content:   req.Content,
		FollowUp:  req.FollowUp,
		NextDate:  req.NextDate,
	})
	if !ok {
		return models.CounselingRecord{}, errWriteFailed
	}
	return record, nil
}

// UpdateCounseling merges patch into the record.
func (s *RecordsService) UpdateCounseling(ctx context.Context, number int, id string, patch models.CounselingPatch) (models.CounselingRecord, error) {
	if err := s.validate(patch, "invalid counseling patch"); err != nil {
		return models.CounselingRecord{}, err
	}
	if _, ok := s.counseling.Get(ctx, number, id); !ok {
		return models.CounselingRecord{}, errCounselingAbsent
	}
	if !s.counseling.Update(ctx, number, id, patch) {
		return models.CounselingRecord{}, errWriteFailed
	}
	record, _ := s.counseling.Get(ctx, number, id)
	return record, nil
}

// DeleteCounseling removes the record.
func (s *RecordsService) DeleteCounseling(ctx context.Context, number int, id string) error {
	if _, ok := s.counseling.Get(ctx, number, id); !ok {
		return errCounselingAbsent
	}
	if !s.counseling.Delete(ctx, number, id) {
		return errWriteFailed
	}
	return nil
}

// ListGrades returns grade records ordered by year and semester, newest first.
func (s *RecordsService) ListGrades(ctx context.Context, number int) ([]models.GradeRecord, error) {
	if err := s.requireStudent(ctx, number); err != nil {
		return nil, err
	}
	return s.grades.List(ctx, number), nil
}

// AddGrade stores a grade record.
func (s *RecordsService) AddGrade(ctx context.Context, number int, req dto.CreateGradeRequest) (models.GradeRecord, error) {
	if err := s.validate(req, "invalid grade payload"); err != nil {
		return models.GradeRecord{}, err
	}
	if err := s.requireStudent(ctx, number); err != nil {
		return models.GradeRecord{}, err
	}
	record, ok := s.grades.Add(ctx, number, models.GradeRecord{
		Year:     req.Year,
		Semester: req.Semester,
		Subject:  req.Subject,
		Score:    req.Score,
		Grade:    req.Grade,
		Rank:     req.Rank,
		Notes:    req.Notes,
	})
	if !ok {
		return models.GradeRecord{}, errWriteFailed
	}
	return record, nil
}

// UpdateGrade merges patch into the record.
func (s *RecordsService) UpdateGrade(ctx context.Context, number int, id string, patch models.GradePatch) (models.GradeRecord, error) {
	if err := s.validate(patch, "invalid grade patch"); err != nil {
		return models.GradeRecord{}, err
	}
	if _, ok := s.grades.Get(ctx, number, id); !ok {
		return models.GradeRecord{}, errGradeAbsent
	}
	if !s.grades.Update(ctx, number, id, patch) {
		return models.GradeRecord{}, errWriteFailed
	}
	record, _ := s.grades.Get(ctx, number, id)
	return record, nil
}

// DeleteGrade removes the record.
func (s *RecordsService) DeleteGrade(ctx context.Context, number int, id string) error {
	if _, ok := s.grades.Get(ctx, number, id); !ok {
		return errGradeAbsent
	}
	if !s.grades.Delete(ctx, number, id) {
		return errWriteFailed
	}
	return nil
}

// GetFeedback returns stored feedback for a project.
func (s *RecordsService) GetFeedback(ctx context.Context, number int, projectID string) (models.ProjectFeedback, error) {
	feedback, ok := s.feedback.Get(ctx, number, projectID)
	if !ok {
		return models.ProjectFeedback{}, errFeedbackAbsent
	}
	return feedback, nil
}

// DeleteFeedback removes stored feedback for a project.
func (s *RecordsService) DeleteFeedback(ctx context.Context, number int, projectID string) error {
	if _, ok := s.feedback.Get(ctx, number, projectID); !ok {
		return errFeedbackAbsent
	}
	if !s.feedback.Delete(ctx, number, projectID) {
		return errWriteFailed
	}
	return nil
}

// FeedbackSummary pairs each stored feedback with its project title, using a
// fallback title when the project is gone.
func (s *RecordsService) FeedbackSummary(ctx context.Context, number int) []models.FeedbackItem {
	stored := s.feedback.List(ctx, number)
	titles := make(map[string]string)
	for _, project := range s.projects.List(ctx, number) {
		titles[project.ID] = project.Title
	}
	items := make([]models.FeedbackItem, 0, len(stored))
	for _, fb := range stored {
		title, ok := titles[fb.ProjectID]
		if !ok {
			title = models.FallbackProjectTitle
		}
		items = append(items, models.FeedbackItem{
			ProjectID:    fb.ProjectID,
			ProjectTitle: title,
			Feedback:     fb.Feedback,
			GeneratedAt:  fb.GeneratedAt,
		})
	}
	return items
}
