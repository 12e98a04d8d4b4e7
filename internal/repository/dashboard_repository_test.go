package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/models"
)

func TestDashboardGoals(t *testing.T) {
	store, _ := newTestStore()
	repo := NewDashboardRepository(store, nil)
	ctx := context.Background()

	goal, ok := repo.AddGoal(ctx, 1, "알고리즘 문제 2개 풀기", "2025-03-01")
	require.True(t, ok)
	_, ok = repo.AddGoal(ctx, 1, "React 컴포넌트 만들기", "2025-03-02")
	require.True(t, ok)

	assert.Len(t, repo.Goals(ctx, 1, ""), 2)
	assert.Len(t, repo.Goals(ctx, 1, "2025-03-01"), 1)

	toggled, ok := repo.ToggleGoal(ctx, 1, goal.ID)
	require.True(t, ok)
	assert.True(t, toggled.IsCompleted)
	toggled, ok = repo.ToggleGoal(ctx, 1, goal.ID)
	require.True(t, ok)
	assert.False(t, toggled.IsCompleted)

	_, ok = repo.ToggleGoal(ctx, 2, goal.ID)
	assert.False(t, ok)

	assert.True(t, repo.DeleteGoal(ctx, 1, goal.ID))
	assert.False(t, repo.DeleteGoal(ctx, 1, goal.ID))
}

func TestDashboardRoadmapDefaults(t *testing.T) {
	store, _ := newTestStore()
	repo := NewDashboardRepository(store, nil)
	ctx := context.Background()

	assert.Equal(t, models.DefaultRoadmap(), repo.Roadmap(ctx, 1))

	require.True(t, repo.SetRoadmapEntry(ctx, 1, models.RoadmapProgress{Grade: 2, Title: "2학년", Percentage: 80, Description: "팀 프로젝트"}))
	roadmap := repo.Roadmap(ctx, 1)
	require.Len(t, roadmap, 3)
	assert.Equal(t, 80, roadmap[1].Percentage)
	assert.Equal(t, 100, roadmap[0].Percentage)
	assert.Equal(t, models.DefaultRoadmap(), repo.Roadmap(ctx, 2))
}

func TestDashboardActivitiesNewestFirstAndCapped(t *testing.T) {
	store, _ := newTestStore()
	repo := NewDashboardRepository(store, nil)
	ctx := context.Background()

	for i := 0; i < models.MaxActivities+5; i++ {
		_, ok := repo.RecordActivity(ctx, 1, models.ActivityGoal, fmt.Sprintf("goal %d", i), "")
		require.True(t, ok)
	}

	all := repo.Activities(ctx, 1, 0)
	require.Len(t, all, models.MaxActivities)
	assert.Equal(t, fmt.Sprintf("goal %d", models.MaxActivities+4), all[0].Title)

	assert.Len(t, repo.Activities(ctx, 1, 5), 5)
	assert.Empty(t, repo.Activities(ctx, 2, 5))
}
