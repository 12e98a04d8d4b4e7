package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

func newRecordsService(r *repos) *RecordsService {
	return NewRecordsService(RecordsServiceParams{
		Students:   r.roster,
		Projects:   r.projects,
		Counseling: r.counseling,
		Grades:     r.grades,
		Feedback:   r.feedback,
		Activities: r.dashboard,
	}, nil, nil)
}

func TestDeleteProjectCascadesFeedback(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	project, err := svc.AddProject(ctx, 1, dto.CreateProjectRequest{Title: "Portfolio site"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectPlanned, project.Status)
	_, ok := r.feedback.Set(ctx, 1, project.ID, "good")
	require.True(t, ok)

	require.NoError(t, svc.DeleteProject(ctx, 1, project.ID))
	_, ok = r.feedback.Get(ctx, 1, project.ID)
	assert.False(t, ok)
	assert.True(t, errors.Is(svc.DeleteProject(ctx, 1, project.ID), appErrors.ErrNotFound))
}

func TestAddProjectRecordsActivity(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	_, err := svc.AddProject(ctx, 2, dto.CreateProjectRequest{Title: "Bot", Status: models.ProjectInProgress})
	require.NoError(t, err)
	activities := r.dashboard.Activities(ctx, 2, 0)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityProject, activities[0].Type)
	assert.Equal(t, "Bot", activities[0].Title)
}

func TestRecordsValidation(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	_, err := svc.AddProject(ctx, 1, dto.CreateProjectRequest{Title: "x", Status: "done"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddCounseling(ctx, 1, dto.CreateCounselingRequest{Date: "2025/01/01", Counselor: "a", Category: models.CounselingCareer, Content: "c"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddGrade(ctx, 1, dto.CreateGradeRequest{Year: "2025", Semester: "3학기", Subject: "수학", Score: 90})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddGrade(ctx, 1, dto.CreateGradeRequest{Year: "2025", Semester: models.FirstSemester, Subject: "수학", Score: 101})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddGrade(ctx, 999, dto.CreateGradeRequest{Year: "2025", Semester: models.FirstSemester, Subject: "수학", Score: 90})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCounselingAndGradeOrdering(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	for _, date := range []string{"2025-03-01", "2025-05-10", "2025-04-02"} {
		_, err := svc.AddCounseling(ctx, 3, dto.CreateCounselingRequest{Date: date, Counselor: "담임", Category: models.CounselingAcademic, Content: "상담"})
		require.NoError(t, err)
	}
	records, err := svc.ListCounseling(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-05-10", records[0].Date)
	assert.Equal(t, "2025-03-01", records[2].Date)

	for _, g := range []dto.CreateGradeRequest{
		{Year: "2024", Semester: models.SecondSemester, Subject: "국어", Score: 80},
		{Year: "2025", Semester: models.FirstSemester, Subject: "영어", Score: 85},
		{Year: "2025", Semester: models.SecondSemester, Subject: "수학", Score: 90},
	} {
		_, err := svc.AddGrade(ctx, 3, g)
		require.NoError(t, err)
	}
	grades, err := svc.ListGrades(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "수학", grades[0].Subject)
	assert.Equal(t, "국어", grades[2].Subject)
}

func TestUpdateRecordsInPartition(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	grade, err := svc.AddGrade(ctx, 4, dto.CreateGradeRequest{Year: "2025", Semester: models.FirstSemester, Subject: "수학", Score: 70})
	require.NoError(t, err)

	score := 95.0
	_, err = svc.UpdateGrade(ctx, 5, grade.ID, models.GradePatch{Score: &score})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	updated, err := svc.UpdateGrade(ctx, 4, grade.ID, models.GradePatch{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 95.0, updated.Score)
	assert.Equal(t, grade.ID, updated.ID)

	title := "renamed"
	project, err := svc.AddProject(ctx, 4, dto.CreateProjectRequest{Title: "orig"})
	require.NoError(t, err)
	patched, err := svc.UpdateProject(ctx, 4, project.ID, models.ProjectPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", patched.Title)
	assert.Equal(t, project.CreatedAt, patched.CreatedAt)
}

func TestFeedbackSummaryFallbackTitle(t *testing.T) {
	r := newRepos(t)
	svc := newRecordsService(r)
	ctx := context.Background()

	project, err := svc.AddProject(ctx, 1, dto.CreateProjectRequest{Title: "Site"})
	require.NoError(t, err)
	_, ok := r.feedback.Set(ctx, 1, project.ID, "nice")
	require.True(t, ok)
	_, ok = r.feedback.Set(ctx, 1, "gone", "old")
	require.True(t, ok)

	items := svc.FeedbackSummary(ctx, 1)
	require.Len(t, items, 2)
	titles := map[string]string{}
	for _, item := range items {
		titles[item.ProjectID] = item.ProjectTitle
	}
	assert.Equal(t, "Site", titles[project.ID])
	assert.Equal(t, models.FallbackProjectTitle, titles["gone"])
}
