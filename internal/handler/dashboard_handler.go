package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type dashboardService interface {
	Dashboard(ctx context.Context, number int) (models.Dashboard, error)
	Goals(ctx context.Context, number int, date string) ([]models.DailyGoal, error)
	AddGoal(ctx context.Context, number int, req dto.CreateGoalRequest) (models.DailyGoal, error)
	ToggleGoal(ctx context.Context, number int, id string) (models.DailyGoal, error)
	DeleteGoal(ctx context.Context, number int, id string) error
	Roadmap(ctx context.Context, number int) []models.RoadmapProgress
	UpdateRoadmap(ctx context.Context, number, grade int, req dto.UpdateRoadmapRequest) (models.RoadmapProgress, error)
	Activities(ctx context.Context, number, limit int) []models.Activity
}

// DashboardHandler serves the signed-in student's dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// withMe resolves the signed-in student and hands the number to fn.
func withMe(c *gin.Context, fn func(number int)) {
	number, err := currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	fn(number)
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	withMe(c, func(number int) {
		dashboard, err := h.service.Dashboard(c.Request.Context(), number)
		reply(c, http.StatusOK, dashboard, err)
	})
}

// Goals godoc
// @Summary List daily goals
// @Tags Me
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /me/goals [get]
func (h *DashboardHandler) Goals(c *gin.Context) {
	withMe(c, func(number int) {
		goals, err := h.service.Goals(c.Request.Context(), number, c.Query("date"))
		reply(c, http.StatusOK, goals, err)
	})
}

// AddGoal godoc
// @Summary Add a daily goal
// @Tags Me
// @Accept json
// @Produce json
// @Param payload body dto.CreateGoalRequest true "Goal"
// @Success 201 {object} response.Envelope
// @Router /me/goals [post]
func (h *DashboardHandler) AddGoal(c *gin.Context) {
	withMe(c, func(number int) {
		var req dto.CreateGoalRequest
		if err := bindJSON(c, &req, "invalid goal payload"); err != nil {
			response.Error(c, err)
			return
		}
		goal, err := h.service.AddGoal(c.Request.Context(), number, req)
		reply(c, http.StatusCreated, goal, err)
	})
}

// ToggleGoal godoc
// @Summary Toggle a daily goal
// @Tags Me
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope
// @Router /me/goals/{id}/toggle [post]
func (h *DashboardHandler) ToggleGoal(c *gin.Context) {
	withMe(c, func(number int) {
		goal, err := h.service.ToggleGoal(c.Request.Context(), number, c.Param("id"))
		reply(c, http.StatusOK, goal, err)
	})
}

// DeleteGoal godoc
// @Summary Delete a daily goal
// @Tags Me
// @Param id path string true "Goal ID"
// @Success 204
// @Router /me/goals/{id} [delete]
func (h *DashboardHandler) DeleteGoal(c *gin.Context) {
	withMe(c, func(number int) {
		reply(c, http.StatusNoContent, nil, h.service.DeleteGoal(c.Request.Context(), number, c.Param("id")))
	})
}

// Roadmap godoc
// @Summary Roadmap progress
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/roadmap [get]
func (h *DashboardHandler) Roadmap(c *gin.Context) {
	withMe(c, func(number int) {
		response.JSON(c, http.StatusOK, h.service.Roadmap(c.Request.Context(), number))
	})
}

// UpdateRoadmap godoc
// @Summary Update one roadmap year
// @Tags Me
// @Accept json
// @Produce json
// @Param grade path int true "School year (1-3)"
// @Param payload body dto.UpdateRoadmapRequest true "Progress"
// @Success 200 {object} response.Envelope
// @Router /me/roadmap/{grade} [put]
func (h *DashboardHandler) UpdateRoadmap(c *gin.Context) {
	withMe(c, func(number int) {
		grade, err := strconv.Atoi(c.Param("grade"))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade must be 1, 2 or 3"))
			return
		}
		var req dto.UpdateRoadmapRequest
		if err := bindJSON(c, &req, "invalid roadmap payload"); err != nil {
			response.Error(c, err)
			return
		}
		entry, err := h.service.UpdateRoadmap(c.Request.Context(), number, grade, req)
		reply(c, http.StatusOK, entry, err)
	})
}

// Activities godoc
// @Summary Activity feed, newest first
// @Tags Me
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /me/activities [get]
func (h *DashboardHandler) Activities(c *gin.Context) {
	withMe(c, func(number int) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		response.JSON(c, http.StatusOK, h.service.Activities(c.Request.Context(), number, limit))
	})
}
