package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

// MaxImportBytes bounds the size of an uploaded roster CSV.
const MaxImportBytes = 5 << 20

type rosterService interface {
	List(ctx context.Context) []models.Student
	Get(ctx context.Context, number int) (models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error)
	Update(ctx context.Context, number int, patch models.StudentPatch) (models.Student, error)
	Delete(ctx context.Context, number int) error
	Import(ctx context.Context, data []byte) (dto.ImportResult, error)
	Export(ctx context.Context) ([]byte, error)
	Reset(ctx context.Context) error
}

// StudentHandler exposes roster administration endpoints.
type StudentHandler struct {
	roster rosterService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(roster rosterService) *StudentHandler {
	return &StudentHandler{roster: roster}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students := h.roster.List(c.Request.Context())
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param number path int true "Student number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{number} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.roster.Get(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Add student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := bindJSON(c, &req, "invalid student payload"); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.roster.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param number path int true "Student number"
// @Param payload body models.StudentPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{number} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var patch models.StudentPatch
	if err := bindJSON(c, &patch, "invalid student patch"); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.roster.Update(c.Request.Context(), number, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param number path int true "Student number"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{number} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.roster.Delete(c.Request.Context(), number); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Replace roster from CSV
// @Description Accepts a text/csv body or a multipart form with a "file" field. Any malformed row rejects the whole upload.
// @Tags Students
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /admin/students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)
	data, err := readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.roster.Import(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, appErrors.ErrCSVInvalid) {
			response.Error(c, err, map[string]interface{}{"diagnostics": result.Diagnostics})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{"imported": result.Imported})
}

// Export godoc
// @Summary Download roster CSV
// @Tags Students
// @Produce text/csv
// @Success 200 {file} file
// @Router /admin/students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	body, err := h.roster.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "students.csv", "text/csv; charset=utf-8", body)
}

// Reset godoc
// @Summary Restore the default roster
// @Tags Students
// @Success 204
// @Router /admin/students/reset [post]
func (h *StudentHandler) Reset(c *gin.Context) {
	if err := h.roster.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func readUpload(c *gin.Context) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	var (
		reader io.Reader = c.Request.Body
		data   []byte
		err    error
	)
	if mediaType == "multipart/form-data" {
		header, ferr := c.FormFile("file")
		if ferr != nil {
			return nil, appErrors.Wrap(ferr, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required")
		}
		file, ferr := header.Open()
		if ferr != nil {
			return nil, appErrors.Wrap(ferr, appErrors.ErrValidation.Code, http.StatusBadRequest, "cannot open uploaded file")
		}
		defer file.Close()
		reader = file
	}
	data, err = io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "upload too large")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cannot read upload")
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty upload")
	}
	return data, nil
}
