package dto

import "github.com/noah-isme/career-roadmap-api/internal/models"

// CreateProjectRequest defines payload for adding a project.
type CreateProjectRequest struct {
	Title       string               `json:"title" validate:"required"`
	Description string               `json:"description"`
	GithubURL   string               `json:"githubUrl" validate:"omitempty,url"`
	DemoURL     string               `json:"demoUrl" validate:"omitempty,url"`
	Status      models.ProjectStatus `json:"status" validate:"omitempty,oneof=planned in_progress completed"`
	TechStack   string               `json:"techStack"`
}

// CreateCounselingRequest defines payload for adding a counseling record.
type CreateCounselingRequest struct {
	Date      string                    `json:"date" validate:"required,datetime=2006-01-02"`
	Counselor string                    `json:"counselor" validate:"required"`
	Category  models.CounselingCategory `json:"category" validate:"required,oneof=진로 학업 생활 심리 기타"`
	Content   string                    `json:"content" validate:"required"`
	FollowUp  string                    `json:"followUp"`
	NextDate  string                    `json:"nextDate" validate:"omitempty,datetime=2006-01-02"`
}

// CreateGradeRequest defines payload for adding a grade record.
type CreateGradeRequest struct {
	Year     string  `json:"year" validate:"required"`
	Semester string  `json:"semester" validate:"required,oneof=1학기 2학기"`
	Subject  string  `json:"subject" validate:"required"`
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
	Grade    string  `json:"grade"`
	Rank     string  `json:"rank"`
	Notes    string  `json:"notes"`
}

// FeedbackJob is returned when feedback generation is queued.
type FeedbackJob struct {
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	StatusURL string `json:"statusUrl,omitempty"`
}
