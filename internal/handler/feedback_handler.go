package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/jobs"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type feedbackService interface {
	Ready() error
	Generate(ctx context.Context, req models.FeedbackRequest) (string, error)
	GenerateForProject(ctx context.Context, number int, projectID string) (models.ProjectFeedback, error)
	Enqueue(ctx context.Context, number int, projectID string) (jobs.State, error)
	JobState(id string) (jobs.State, error)
}

// FeedbackHandler exposes the feedback proxy.
type FeedbackHandler struct {
	feedback  feedbackService
	apiPrefix string
}

// NewFeedbackHandler constructs FeedbackHandler. apiPrefix is used to build
// job status URLs.
func NewFeedbackHandler(feedback feedbackService, apiPrefix string) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, apiPrefix: strings.TrimRight(apiPrefix, "/")}
}

// Generate godoc
// @Summary Generate project feedback
// @Description Proxies the project description to the generative model. Responds with {"feedback": "..."} or {"error": "..."}.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body models.FeedbackRequest true "Project description"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /feedback/generate [post]
func (h *FeedbackHandler) Generate(c *gin.Context) {
	if err := h.feedback.Ready(); err != nil {
		feedbackError(c, err)
		return
	}
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(appErrors.ErrFeedbackRequest.Status, gin.H{"error": appErrors.ErrFeedbackRequest.Message})
		return
	}
	text, err := h.feedback.Generate(c.Request.Context(), req)
	if err != nil {
		feedbackError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": text})
}

func feedbackError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

// GenerateForProject godoc
// @Summary Generate and store feedback for a project
// @Tags Feedback
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/projects/{id}/feedback [post]
func (h *FeedbackHandler) GenerateForProject(c *gin.Context) {
	withStudent(c, func(number int) {
		feedback, err := h.feedback.GenerateForProject(c.Request.Context(), number, c.Param("id"))
		reply(c, http.StatusOK, feedback, err)
	})
}

// Enqueue godoc
// @Summary Queue feedback generation for a project
// @Tags Feedback
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/students/{number}/projects/{id}/feedback/jobs [post]
func (h *FeedbackHandler) Enqueue(c *gin.Context) {
	withStudent(c, func(number int) {
		state, err := h.feedback.Enqueue(c.Request.Context(), number, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, dto.FeedbackJob{
			JobID:     state.ID,
			Status:    string(state.Status),
			StatusURL: fmt.Sprintf("%s/admin/feedback/jobs/%s", h.apiPrefix, state.ID),
		})
	})
}

// JobStatus godoc
// @Summary Feedback job status
// @Tags Feedback
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/feedback/jobs/{id} [get]
func (h *FeedbackHandler) JobStatus(c *gin.Context) {
	state, err := h.feedback.JobState(c.Param("id"))
	reply(c, http.StatusOK, state, err)
}
