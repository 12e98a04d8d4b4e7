package models

import "time"

// FallbackProjectTitle is shown for feedback whose project no longer exists.
const FallbackProjectTitle = "프로젝트"

// ProjectFeedback is the generated critique for one project. A student has at
// most one entry per project.
type ProjectFeedback struct {
	ProjectID   string    `json:"projectId"`
	Feedback    string    `json:"feedback"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// FeedbackItem pairs stored feedback with its resolved project title.
type FeedbackItem struct {
	ProjectID    string    `json:"projectId"`
	ProjectTitle string    `json:"projectTitle"`
	Feedback     string    `json:"feedback"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// FeedbackRequest is the input of the feedback proxy.
type FeedbackRequest struct {
	ProjectTitle string `json:"projectTitle"`
	Description  string `json:"description"`
	TechStack    string `json:"techStack"`
	Status       string `json:"status"`
	StudentName  string `json:"studentName"`
}
