package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/gemini"
	"github.com/noah-isme/career-roadmap-api/pkg/jobs"
)

// PlaceholderAPIKey is the sample value shipped in example env files.
const PlaceholderAPIKey = "your_gemini_api_key_here"

// FeedbackJobType labels asynchronous feedback jobs.
const FeedbackJobType = "project_feedback"

const feedbackPromptTemplate = `당신은 직업계 고등학교의 전문 IT 교육 멘토입니다.
아래 학생의 프로젝트 제출 과제를 검토하고 건설적인 피드백을 제공해주세요.

[학생 정보]
- 이름: %s

[프로젝트 정보]
- 프로젝트명: %s
- 설명: %s
- 기술스택: %s
- 진행 상태: %s

다음 기준으로 피드백을 작성해 주세요:
1. **잘한 점**: 프로젝트의 긍정적인 측면
2. **개선할 점**: 구체적인 개선 방향과 제안
3. **다음 단계**: 발전을 위해 도전해볼 만한 추가 과제나 방향

피드백은 학생이 이해하기 쉽도록 친절하고 격려적인 어조로 작성해주세요.
전체 분량은 200~350자 내외로 작성해주세요.`

type textGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type feedbackMetrics interface {
	ObserveFeedbackAttempt(model, outcome string)
	ObserveFeedbackJob(status string)
}

type projectLookup interface {
	Get(ctx context.Context, number int, id string) (models.Project, bool)
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
	State(id string) (jobs.State, bool)
}

// FeedbackConfig selects the provider credentials and models.
type FeedbackConfig struct {
	APIKey        string
	PrimaryModel  string
	FallbackModel string
}

// FeedbackService proxies project descriptions to the generative provider
// and stores the resulting critiques.
type FeedbackService struct {
	generator textGenerator
	config    FeedbackConfig
	students  studentLookup
	projects  projectLookup
	feedback  feedbackStore
	metrics   feedbackMetrics
	logger    *zap.Logger

	group singleflight.Group
	queue jobQueue
}

type feedbackJob struct {
	StudentNumber int
	ProjectID     string
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(generator textGenerator, config FeedbackConfig, students studentLookup, projects projectLookup, feedback feedbackStore, metrics feedbackMetrics, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PrimaryModel == "" {
		config.PrimaryModel = "gemini-2.5-flash"
	}
	if config.FallbackModel == "" {
		config.FallbackModel = "gemini-2.0-flash"
	}
	return &FeedbackService{
		generator: generator,
		config:    config,
		students:  students,
		projects:  projects,
		feedback:  feedback,
		metrics:   metrics,
		logger:    logger,
	}
}

// UseQueue attaches the worker queue used by Enqueue. The queue handler
// should be HandleJob.
func (s *FeedbackService) UseQueue(queue jobQueue) {
	s.queue = queue
}

// BuildFeedbackPrompt renders the mentor prompt for req.
func BuildFeedbackPrompt(req models.FeedbackRequest) string {
	description := req.Description
	if description == "" {
		description = "(설명 없음)"
	}
	techStack := req.TechStack
	if techStack == "" {
		techStack = "(미입력)"
	}
	return fmt.Sprintf(feedbackPromptTemplate, req.StudentName, req.ProjectTitle, description, techStack, req.Status)
}

// Ready reports whether provider credentials are configured. A missing key
// or the sample placeholder both count as unconfigured.
func (s *FeedbackService) Ready() error {
	if s.config.APIKey == "" || s.config.APIKey == PlaceholderAPIKey {
		return appErrors.Clone(appErrors.ErrFeedbackCredential, "")
	}
	return nil
}

// Generate asks the primary model for feedback and retries once on the
// fallback model when the primary answers with a non-success status.
// Transport failures are not retried.
func (s *FeedbackService) Generate(ctx context.Context, req models.FeedbackRequest) (string, error) {
	if err := s.Ready(); err != nil {
		return "", err
	}
	prompt := BuildFeedbackPrompt(req)

	text, err := s.attempt(ctx, s.config.PrimaryModel, prompt)
	if err == nil {
		return text, nil
	}
	var status *gemini.StatusError
	if !errors.As(err, &status) {
		return "", transportError(err)
	}
	s.logger.Warn("primary model failed, trying fallback",
		zap.String("model", s.config.PrimaryModel),
		zap.Int("status", status.StatusCode),
	)

	text, err = s.attempt(ctx, s.config.FallbackModel, prompt)
	if err == nil {
		return text, nil
	}
	if errors.As(err, &status) {
		return "", appErrors.Cause(appErrors.Clone(appErrors.ErrFeedbackProvider, "Gemini API 오류: "+status.Body), err)
	}
	return "", transportError(err)
}

func (s *FeedbackService) attempt(ctx context.Context, model, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, model, prompt)
	outcome := "ok"
	var status *gemini.StatusError
	switch {
	case err == nil:
	case errors.As(err, &status):
		outcome = "status"
	default:
		outcome = "transport"
	}
	if s.metrics != nil {
		s.metrics.ObserveFeedbackAttempt(model, outcome)
	}
	return text, err
}

func transportError(err error) error {
	return appErrors.Cause(appErrors.Clone(appErrors.ErrFeedbackTransport, "API 호출 중 오류가 발생했습니다: "+err.Error()), err)
}

// GenerateForProject produces feedback for a stored project and saves it,
// replacing earlier feedback. Concurrent calls for the same project share
// one provider request. On failure the previous feedback is kept.
func (s *FeedbackService) GenerateForProject(ctx context.Context, number int, projectID string) (models.ProjectFeedback, error) {
	key := fmt.Sprintf("%d/%s", number, projectID)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.generateForProject(context.WithoutCancel(ctx), number, projectID)
	})
	if err != nil {
		return models.ProjectFeedback{}, err
	}
	return result.(models.ProjectFeedback), nil
}

func (s *FeedbackService) generateForProject(ctx context.Context, number int, projectID string) (models.ProjectFeedback, error) {
	student, ok := s.students.Get(ctx, number)
	if !ok {
		return models.ProjectFeedback{}, errStudentAbsent
	}
	project, ok := s.projects.Get(ctx, number, projectID)
	if !ok {
		return models.ProjectFeedback{}, errProjectAbsent
	}

	text, err := s.Generate(ctx, models.FeedbackRequest{
		ProjectTitle: project.Title,
		Description:  project.Description,
		TechStack:    project.TechStack,
		Status:       project.Status.Label(),
		StudentName:  student.Name,
	})
	if err != nil {
		return models.ProjectFeedback{}, err
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("provider returned empty feedback", zap.Int("student_number", number), zap.String("project_id", projectID))
	}

	saved, ok := s.feedback.Set(ctx, number, projectID, text)
	if !ok {
		return models.ProjectFeedback{}, errWriteFailed
	}
	return saved, nil
}

// Enqueue schedules GenerateForProject on the background queue.
func (s *FeedbackService) Enqueue(ctx context.Context, number int, projectID string) (jobs.State, error) {
	if s.queue == nil {
		return jobs.State{}, appErrors.Clone(appErrors.ErrInternal, "feedback queue not configured")
	}
	if _, ok := s.projects.Get(ctx, number, projectID); !ok {
		return jobs.State{}, errProjectAbsent
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    FeedbackJobType,
		Payload: feedbackJob{StudentNumber: number, ProjectID: projectID},
	}
	if err := s.queue.Enqueue(job); err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return jobs.State{}, appErrors.Cause(appErrors.ErrQueueFull, err)
		}
		return jobs.State{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue feedback job")
	}
	state, _ := s.queue.State(job.ID)
	return state, nil
}

// JobState returns the state of a queued feedback job.
func (s *FeedbackService) JobState(id string) (jobs.State, error) {
	if s.queue == nil {
		return jobs.State{}, appErrors.Clone(appErrors.ErrNotFound, "job not found")
	}
	state, ok := s.queue.State(id)
	if !ok || state.Type != FeedbackJobType {
		return jobs.State{}, appErrors.Clone(appErrors.ErrNotFound, "job not found")
	}
	return state, nil
}

// HandleJob is the queue handler for feedback jobs.
func (s *FeedbackService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(feedbackJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	_, err := s.GenerateForProject(ctx, payload.StudentNumber, payload.ProjectID)
	status := string(jobs.StatusSucceeded)
	if err != nil {
		status = string(jobs.StatusFailed)
		s.logger.Warn("feedback job failed",
			zap.String("job_id", job.ID),
			zap.Int("student_number", payload.StudentNumber),
			zap.String("project_id", payload.ProjectID),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.ObserveFeedbackJob(status)
	}
	return err
}
