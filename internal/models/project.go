package models

import "time"

// ProjectStatus tracks how far a project has progressed.
type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Label returns the Korean display label used in prompts and exports.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectPlanned:
		return "계획 중"
	case ProjectInProgress:
		return "진행 중"
	case ProjectCompleted:
		return "완료"
	default:
		return string(s)
	}
}

// Project is a portfolio entry owned by one student.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	GithubURL   string        `json:"githubUrl"`
	DemoURL     string        `json:"demoUrl"`
	Status      ProjectStatus `json:"status"`
	TechStack   string        `json:"techStack"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ProjectPatch is a partial project update; id and createdAt are immutable.
type ProjectPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	GithubURL   *string        `json:"githubUrl,omitempty"`
	DemoURL     *string        `json:"demoUrl,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed"`
	TechStack   *string        `json:"techStack,omitempty"`
}

// Apply merges the patch into p.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.GithubURL != nil {
		p.GithubURL = *patch.GithubURL
	}
	if patch.DemoURL != nil {
		p.DemoURL = *patch.DemoURL
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.TechStack != nil {
		p.TechStack = *patch.TechStack
	}
}
