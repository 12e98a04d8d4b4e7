package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/middleware"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

type fakeDashboardSrv struct {
	goals      []models.DailyGoal
	goalErr    error
	lastNumber int
	lastDate   string
	lastLimit  int
	lastGrade  int
	lastGoal   dto.CreateGoalRequest
}

func (f *fakeDashboardSrv) Dashboard(_ context.Context, number int) (models.Dashboard, error) {
	f.lastNumber = number
	return models.Dashboard{Student: models.Student{StudentNumber: number, Name: "김민수"}}, nil
}

func (f *fakeDashboardSrv) Goals(_ context.Context, number int, date string) ([]models.DailyGoal, error) {
	f.lastNumber = number
	f.lastDate = date
	return f.goals, nil
}

func (f *fakeDashboardSrv) AddGoal(_ context.Context, number int, req dto.CreateGoalRequest) (models.DailyGoal, error) {
	f.lastNumber = number
	f.lastGoal = req
	return models.DailyGoal{ID: "g1", Content: req.Content}, f.goalErr
}

func (f *fakeDashboardSrv) ToggleGoal(context.Context, int, string) (models.DailyGoal, error) {
	return models.DailyGoal{}, f.goalErr
}

func (f *fakeDashboardSrv) DeleteGoal(context.Context, int, string) error {
	return f.goalErr
}

func (f *fakeDashboardSrv) Roadmap(context.Context, int) []models.RoadmapProgress {
	return models.DefaultRoadmap()
}

func (f *fakeDashboardSrv) UpdateRoadmap(_ context.Context, _ int, grade int, req dto.UpdateRoadmapRequest) (models.RoadmapProgress, error) {
	f.lastGrade = grade
	return models.RoadmapProgress{Grade: grade, Percentage: *req.Percentage}, nil
}

func (f *fakeDashboardSrv) Activities(_ context.Context, _ int, limit int) []models.Activity {
	f.lastLimit = limit
	return []models.Activity{}
}

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func studentContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleStudent, StudentNumber: 7})
	return c, rec
}

func TestDashboardHandlerRequiresStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/me/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleAdmin, Username: "admin"})

	handler.Dashboard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerUsesTokenStudent(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)
	c, rec := studentContext(http.MethodGet, "/me/dashboard", nil)

	handler.Dashboard(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, srv.lastNumber)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, string(envelope.Data), "김민수")
}

func TestDashboardHandlerGoals(t *testing.T) {
	srv := &fakeDashboardSrv{goals: []models.DailyGoal{{ID: "g1"}}}
	handler := NewDashboardHandler(srv)

	c, rec := studentContext(http.MethodGet, "/me/goals?date=2025-03-14", nil)
	handler.Goals(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-14", srv.lastDate)

	payload, _ := json.Marshal(dto.CreateGoalRequest{Content: "read"})
	c, rec = studentContext(http.MethodPost, "/me/goals", payload)
	handler.AddGoal(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "read", srv.lastGoal.Content)

	c, rec = studentContext(http.MethodPost, "/me/goals", []byte("{"))
	handler.AddGoal(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	srv.goalErr = appErrors.Clone(appErrors.ErrNotFound, "goal not found")
	c, rec = studentContext(http.MethodDelete, "/me/goals/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.DeleteGoal(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardHandlerRoadmapGrade(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)

	c, rec := studentContext(http.MethodPut, "/me/roadmap/x", []byte(`{"percentage":10}`))
	c.Params = gin.Params{{Key: "grade", Value: "x"}}
	handler.UpdateRoadmap(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = studentContext(http.MethodPut, "/me/roadmap/2", []byte(`{"percentage":40}`))
	c.Params = gin.Params{{Key: "grade", Value: "2"}}
	handler.UpdateRoadmap(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, srv.lastGrade)
}

func TestDashboardHandlerActivitiesLimit(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)

	c, rec := studentContext(http.MethodGet, "/me/activities?limit=5", nil)
	handler.Activities(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, srv.lastLimit)
}
