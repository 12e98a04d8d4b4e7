package models

import "time"

// MaxActivities caps the stored activity feed per student.
const MaxActivities = 50

// ActivityType groups feed entries.
type ActivityType string

const (
	ActivityGoal    ActivityType = "goal"
	ActivityRoadmap ActivityType = "roadmap"
	ActivityProject ActivityType = "project"
)

// Label returns the Korean display label.
func (t ActivityType) Label() string {
	switch t {
	case ActivityGoal:
		return "목표 달성"
	case ActivityRoadmap:
		return "로드맵"
	case ActivityProject:
		return "프로젝트"
	default:
		return string(t)
	}
}

// DailyGoal is a to-do item for one day (yyyy-MM-dd).
type DailyGoal struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"isCompleted"`
	Date        string `json:"date"`
}

// RoadmapProgress is the completion of one school year of the roadmap.
type RoadmapProgress struct {
	Grade       int    `json:"grade"`
	Title       string `json:"title"`
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

// DefaultRoadmap returns the roadmap shown before a student edits it.
func DefaultRoadmap() []RoadmapProgress {
	return []RoadmapProgress{
		{Grade: 1, Title: "1학년 - 기초 다지기", Percentage: 100, Description: "기초 자격증 취득, HTML/CSS 학습 완료"},
		{Grade: 2, Title: "2학년 - 실전 프로젝트 (현재)", Percentage: 65, Description: "React 학습 중, 팀 프로젝트 2개 진행"},
		{Grade: 3, Title: "3학년 - 취업 준비", Percentage: 0, Description: "포트폴리오 완성, 기업 프로젝트 참여 예정"},
	}
}

// Activity is one entry of the dashboard feed.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Dashboard aggregates what a student sees after signing in.
type Dashboard struct {
	Student    Student           `json:"student"`
	Goals      []DailyGoal       `json:"goals"`
	Roadmap    []RoadmapProgress `json:"roadmap"`
	Activities []Activity        `json:"activities"`
	Feedback   []FeedbackItem    `json:"feedback"`
	Projects   int               `json:"projectCount"`
}
