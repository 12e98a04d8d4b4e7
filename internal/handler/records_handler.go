package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type recordsService interface {
	ListProjects(ctx context.Context, number int) ([]models.Project, error)
	GetProject(ctx context.Context, number int, id string) (models.Project, error)
	AddProject(ctx context.Context, number int, req dto.CreateProjectRequest) (models.Project, error)
	UpdateProject(ctx context.Context, number int, id string, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, number int, id string) error

	ListCounseling(ctx context.Context, number int) ([]models.CounselingRecord, error)
	AddCounseling(ctx context.Context, number int, req dto.CreateCounselingRequest) (models.CounselingRecord, error)
	UpdateCounseling(ctx context.Context, number int, id string, patch models.CounselingPatch) (models.CounselingRecord, error)
	DeleteCounseling(ctx context.Context, number int, id string) error

	ListGrades(ctx context.Context, number int) ([]models.GradeRecord, error)
	AddGrade(ctx context.Context, number int, req dto.CreateGradeRequest) (models.GradeRecord, error)
	UpdateGrade(ctx context.Context, number int, id string, patch models.GradePatch) (models.GradeRecord, error)
	DeleteGrade(ctx context.Context, number int, id string) error

	GetFeedback(ctx context.Context, number int, projectID string) (models.ProjectFeedback, error)
	DeleteFeedback(ctx context.Context, number int, projectID string) error
	FeedbackSummary(ctx context.Context, number int) []models.FeedbackItem
}

// RecordsHandler exposes the projects, counseling and grade records of a student.
type RecordsHandler struct {
	records recordsService
}

// NewRecordsHandler constructs RecordsHandler.
func NewRecordsHandler(records recordsService) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// reply writes value with status, or the error envelope when err is set.
func reply(c *gin.Context, status int, value interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	switch status {
	case http.StatusNoContent:
		response.NoContent(c)
	case http.StatusCreated:
		response.Created(c, value)
	default:
		response.JSON(c, status, value)
	}
}

// withStudent resolves :number and hands it to fn.
func withStudent(c *gin.Context, fn func(number int)) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	fn(number)
}

// ListProjects godoc
// @Summary List projects
// @Tags Records
// @Produce json
// @Param number path int true "Student number"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/projects [get]
func (h *RecordsHandler) ListProjects(c *gin.Context) {
	withStudent(c, func(number int) {
		projects, err := h.records.ListProjects(c.Request.Context(), number)
		reply(c, http.StatusOK, projects, err)
	})
}

// GetProject godoc
// @Summary Get project
// @Tags Records
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/projects/{id} [get]
func (h *RecordsHandler) GetProject(c *gin.Context) {
	withStudent(c, func(number int) {
		project, err := h.records.GetProject(c.Request.Context(), number, c.Param("id"))
		reply(c, http.StatusOK, project, err)
	})
}

// AddProject godoc
// @Summary Add project
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param payload body dto.CreateProjectRequest true "Project"
// @Success 201 {object} response.Envelope
// @Router /admin/students/{number}/projects [post]
func (h *RecordsHandler) AddProject(c *gin.Context) {
	withStudent(c, func(number int) {
		var req dto.CreateProjectRequest
		if err := bindJSON(c, &req, "invalid project payload"); err != nil {
			response.Error(c, err)
			return
		}
		project, err := h.records.AddProject(c.Request.Context(), number, req)
		reply(c, http.StatusCreated, project, err)
	})
}

// UpdateProject godoc
// @Summary Update project
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Param payload body models.ProjectPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/projects/{id} [patch]
func (h *RecordsHandler) UpdateProject(c *gin.Context) {
	withStudent(c, func(number int) {
		var patch models.ProjectPatch
		if err := bindJSON(c, &patch, "invalid project patch"); err != nil {
			response.Error(c, err)
			return
		}
		project, err := h.records.UpdateProject(c.Request.Context(), number, c.Param("id"), patch)
		reply(c, http.StatusOK, project, err)
	})
}

// DeleteProject godoc
// @Summary Delete project and its feedback
// @Tags Records
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 204
// @Router /admin/students/{number}/projects/{id} [delete]
func (h *RecordsHandler) DeleteProject(c *gin.Context) {
	withStudent(c, func(number int) {
		reply(c, http.StatusNoContent, nil, h.records.DeleteProject(c.Request.Context(), number, c.Param("id")))
	})
}

// ListCounseling godoc
// @Summary List counseling records, newest first
// @Tags Records
// @Produce json
// @Param number path int true "Student number"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/counseling [get]
func (h *RecordsHandler) ListCounseling(c *gin.Context) {
	withStudent(c, func(number int) {
		records, err := h.records.ListCounseling(c.Request.Context(), number)
		reply(c, http.StatusOK, records, err)
	})
}

// AddCounseling godoc
// @Summary Add counseling record
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param payload body dto.CreateCounselingRequest true "Counseling record"
// @Success 201 {object} response.Envelope
// @Router /admin/students/{number}/counseling [post]
func (h *RecordsHandler) AddCounseling(c *gin.Context) {
	withStudent(c, func(number int) {
		var req dto.CreateCounselingRequest
		if err := bindJSON(c, &req, "invalid counseling payload"); err != nil {
			response.Error(c, err)
			return
		}
		record, err := h.records.AddCounseling(c.Request.Context(), number, req)
		reply(c, http.StatusCreated, record, err)
	})
}

// UpdateCounseling godoc
// @Summary Update counseling record
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Record ID"
// @Param payload body models.CounselingPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/counseling/{id} [patch]
func (h *RecordsHandler) UpdateCounseling(c *gin.Context) {
	withStudent(c, func(number int) {
		var patch models.CounselingPatch
		if err := bindJSON(c, &patch, "invalid counseling patch"); err != nil {
			response.Error(c, err)
			return
		}
		record, err := h.records.UpdateCounseling(c.Request.Context(), number, c.Param("id"), patch)
		reply(c, http.StatusOK, record, err)
	})
}

// DeleteCounseling godoc
// @Summary Delete counseling record
// @Tags Records
// @Param number path int true "Student number"
// @Param id path string true "Record ID"
// @Success 204
// @Router /admin/students/{number}/counseling/{id} [delete]
func (h *RecordsHandler) DeleteCounseling(c *gin.Context) {
	withStudent(c, func(number int) {
		reply(c, http.StatusNoContent, nil, h.records.DeleteCounseling(c.Request.Context(), number, c.Param("id")))
	})
}

// ListGrades godoc
// @Summary List grade records, latest term first
// @Tags Records
// @Produce json
// @Param number path int true "Student number"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/grades [get]
func (h *RecordsHandler) ListGrades(c *gin.Context) {
	withStudent(c, func(number int) {
		grades, err := h.records.ListGrades(c.Request.Context(), number)
		reply(c, http.StatusOK, grades, err)
	})
}

// AddGrade godoc
// @Summary Add grade record
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param payload body dto.CreateGradeRequest true "Grade record"
// @Success 201 {object} response.Envelope
// @Router /admin/students/{number}/grades [post]
func (h *RecordsHandler) AddGrade(c *gin.Context) {
	withStudent(c, func(number int) {
		var req dto.CreateGradeRequest
		if err := bindJSON(c, &req, "invalid grade payload"); err != nil {
			response.Error(c, err)
			return
		}
		grade, err := h.records.AddGrade(c.Request.Context(), number, req)
		reply(c, http.StatusCreated, grade, err)
	})
}

// UpdateGrade godoc
// @Summary Update grade record
// @Tags Records
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Record ID"
// @Param payload body models.GradePatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/grades/{id} [patch]
func (h *RecordsHandler) UpdateGrade(c *gin.Context) {
	withStudent(c, func(number int) {
		var patch models.GradePatch
		if err := bindJSON(c, &patch, "invalid grade patch"); err != nil {
			response.Error(c, err)
			return
		}
		grade, err := h.records.UpdateGrade(c.Request.Context(), number, c.Param("id"), patch)
		reply(c, http.StatusOK, grade, err)
	})
}

// DeleteGrade godoc
// @Summary Delete grade record
// @Tags Records
// @Param number path int true "Student number"
// @Param id path string true "Record ID"
// @Success 204
// @Router /admin/students/{number}/grades/{id} [delete]
func (h *RecordsHandler) DeleteGrade(c *gin.Context) {
	withStudent(c, func(number int) {
		reply(c, http.StatusNoContent, nil, h.records.DeleteGrade(c.Request.Context(), number, c.Param("id")))
	})
}

// GetFeedback godoc
// @Summary Stored feedback of a project
// @Tags Feedback
// @Produce json
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{number}/projects/{id}/feedback [get]
func (h *RecordsHandler) GetFeedback(c *gin.Context) {
	withStudent(c, func(number int) {
		feedback, err := h.records.GetFeedback(c.Request.Context(), number, c.Param("id"))
		reply(c, http.StatusOK, feedback, err)
	})
}

// DeleteFeedback godoc
// @Summary Delete stored feedback
// @Tags Feedback
// @Param number path int true "Student number"
// @Param id path string true "Project ID"
// @Success 204
// @Router /admin/students/{number}/projects/{id}/feedback [delete]
func (h *RecordsHandler) DeleteFeedback(c *gin.Context) {
	withStudent(c, func(number int) {
		reply(c, http.StatusNoContent, nil, h.records.DeleteFeedback(c.Request.Context(), number, c.Param("id")))
	})
}

// MyProjects godoc
// @Summary Signed-in student's projects
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/projects [get]
func (h *RecordsHandler) MyProjects(c *gin.Context) {
	number, err := currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	projects, err := h.records.ListProjects(c.Request.Context(), number)
	reply(c, http.StatusOK, projects, err)
}

// MyFeedback godoc
// @Summary Signed-in student's project feedback
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/feedback [get]
func (h *RecordsHandler) MyFeedback(c *gin.Context) {
	number, err := currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.records.FeedbackSummary(c.Request.Context(), number))
}
