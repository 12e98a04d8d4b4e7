package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/models"
)

func TestProjectRepositoryLifecycle(t *testing.T) {
	store, _ := newTestStore()
	repo := NewProjectRepository(store, nil)
	ctx := context.Background()

	assert.Empty(t, repo.List(ctx, 1))

	created, ok := repo.Add(ctx, 1, models.Project{Title: "포트폴리오 사이트", Status: models.ProjectPlanned, CreatedAt: time.Unix(0, 0)})
	require.True(t, ok)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.Equal(time.Unix(0, 0)))

	second, ok := repo.Add(ctx, 1, models.Project{Title: "챗봇"})
	require.True(t, ok)
	assert.NotEqual(t, created.ID, second.ID)

	list := repo.List(ctx, 1)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)

	status := models.ProjectCompleted
	require.True(t, repo.Update(ctx, 1, created.ID, models.ProjectPatch{Status: &status}))
	updated, ok := repo.Get(ctx, 1, created.ID)
	require.True(t, ok)
	assert.Equal(t, models.ProjectCompleted, updated.Status)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.True(t, repo.Delete(ctx, 1, created.ID))
	assert.False(t, repo.Delete(ctx, 1, created.ID))
	assert.Len(t, repo.List(ctx, 1), 1)
}

func TestRecordUpdateStaysInPartition(t *testing.T) {
	store, _ := newTestStore()
	repo := NewProjectRepository(store, nil)
	ctx := context.Background()

	created, ok := repo.Add(ctx, 1, models.Project{Title: "A"})
	require.True(t, ok)

	title := "B"
	assert.False(t, repo.Update(ctx, 2, created.ID, models.ProjectPatch{Title: &title}))
	assert.False(t, repo.Delete(ctx, 2, created.ID))

	kept, ok := repo.Get(ctx, 1, created.ID)
	require.True(t, ok)
	assert.Equal(t, "A", kept.Title)
	assert.Empty(t, repo.List(ctx, 2))
}

func TestCounselingSortedByDateAfterEachInsert(t *testing.T) {
	store, _ := newTestStore()
	repo := NewCounselingRepository(store, nil)
	ctx := context.Background()

	for _, date := range []string{"2025-03-10", "2025-05-01", "2025-01-20", "2025-05-01", "2024-12-31"} {
		_, ok := repo.Add(ctx, 7, models.CounselingRecord{Date: date, Counselor: "담임", Category: models.CounselingCareer})
		require.True(t, ok)

		list := repo.List(ctx, 7)
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1].Date, list[i].Date)
		}
	}
	assert.Len(t, repo.List(ctx, 7), 5)
}

func TestGradesSortedByYearAndSemesterAfterEachInsert(t *testing.T) {
	store, _ := newTestStore()
	repo := NewGradeRepository(store, nil)
	ctx := context.Background()

	inputs := []models.GradeRecord{
		{Year: "2024", Semester: models.FirstSemester, Subject: "국어", Score: 88},
		{Year: "2025", Semester: models.FirstSemester, Subject: "수학", Score: 92},
		{Year: "2024", Semester: models.SecondSemester, Subject: "영어", Score: 75},
		{Year: "2025", Semester: models.SecondSemester, Subject: "프로그래밍", Score: 99},
	}
	for _, input := range inputs {
		_, ok := repo.Add(ctx, 3, input)
		require.True(t, ok)

		list := repo.List(ctx, 3)
		for i := 1; i < len(list); i++ {
			assert.False(t, models.GradeNewestFirst(list[i], list[i-1]), "out of order at %d", i)
		}
	}

	list := repo.List(ctx, 3)
	got := make([]string, 0, len(list))
	for _, r := range list {
		got = append(got, fmt.Sprintf("%s/%s", r.Year, r.Semester))
	}
	assert.Equal(t, []string{"2025/2학기", "2025/1학기", "2024/2학기", "2024/1학기"}, got)
}

func TestProjectDeleteDoesNotCascadeToFeedback(t *testing.T) {
	store, _ := newTestStore()
	projects := NewProjectRepository(store, nil)
	feedback := NewFeedbackRepository(store, nil)
	ctx := context.Background()

	project, ok := projects.Add(ctx, 1, models.Project{Title: "A"})
	require.True(t, ok)
	_, ok = feedback.Set(ctx, 1, project.ID, "좋아요")
	require.True(t, ok)

	require.True(t, projects.Delete(ctx, 1, project.ID))

	_, stillThere := feedback.Get(ctx, 1, project.ID)
	assert.True(t, stillThere, "repository-level delete leaves feedback behind")
}
