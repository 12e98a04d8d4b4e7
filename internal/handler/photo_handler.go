package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type photoService interface {
	All(ctx context.Context) map[int]string
	Set(ctx context.Context, number int, data string) error
	Image(ctx context.Context, number int) (service.Image, error)
	Thumbnail(ctx context.Context, number, size int) (service.Image, error)
}

// PhotoHandler serves student photos.
type PhotoHandler struct {
	photos photoService
}

// NewPhotoHandler constructs PhotoHandler.
func NewPhotoHandler(photos photoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// List godoc
// @Summary List stored photos
// @Tags Photos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/photos [get]
func (h *PhotoHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.photos.All(c.Request.Context()))
}

// Set godoc
// @Summary Store a student photo
// @Tags Photos
// @Accept json
// @Param number path int true "Student number"
// @Param payload body dto.SetPhotoRequest true "Data URI"
// @Success 204
// @Router /admin/students/{number}/photo [put]
func (h *PhotoHandler) Set(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SetPhotoRequest
	if err := bindJSON(c, &req, "photo is required"); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.photos.Set(c.Request.Context(), number, req.Photo); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Get godoc
// @Summary Raw student photo
// @Tags Photos
// @Produce image/png
// @Produce image/jpeg
// @Param number path int true "Student number"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{number}/photo [get]
func (h *PhotoHandler) Get(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serve(c, number, false)
}

// Thumbnail godoc
// @Summary Student photo thumbnail
// @Tags Photos
// @Produce image/png
// @Param number path int true "Student number"
// @Param size query int false "Edge length in pixels"
// @Success 200 {file} file
// @Router /admin/students/{number}/photo/thumbnail [get]
func (h *PhotoHandler) Thumbnail(c *gin.Context) {
	number, err := studentParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serve(c, number, true)
}

// Mine godoc
// @Summary Signed-in student's photo
// @Tags Me
// @Produce image/png
// @Success 200 {file} file
// @Router /me/photo [get]
func (h *PhotoHandler) Mine(c *gin.Context) {
	number, err := currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serve(c, number, c.Query("thumbnail") == "true")
}

func (h *PhotoHandler) serve(c *gin.Context, number int, thumbnail bool) {
	var (
		img service.Image
		err error
	)
	if thumbnail {
		size, _ := strconv.Atoi(c.Query("size"))
		img, err = h.photos.Thumbnail(c.Request.Context(), number, size)
	} else {
		img, err = h.photos.Image(c.Request.Context(), number)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
