package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type sessionService interface {
	SignInStudent(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error)
	SignOutStudent(ctx context.Context) error
	CurrentStudent(ctx context.Context) (*models.Student, bool)
	SignInAdmin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error)
	SignOutAdmin(ctx context.Context) error
	CurrentAdmin(ctx context.Context) (*models.AdminSession, bool)
}

type signUpService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (models.Student, error)
}

// AuthHandler wires HTTP endpoints to the session gate.
type AuthHandler struct {
	sessions sessionService
	roster   signUpService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(sessions sessionService, roster signUpService) *AuthHandler {
	return &AuthHandler{sessions: sessions, roster: roster}
}

// StudentLogin godoc
// @Summary Student sign-in
// @Description Authenticate a student by name and student number
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.StudentLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := bindJSON(c, &req, "invalid login payload"); err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.sessions.SignInStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// StudentLogout godoc
// @Summary Student sign-out
// @Tags Authentication
// @Success 204
// @Router /auth/student/logout [post]
func (h *AuthHandler) StudentLogout(c *gin.Context) {
	if err := h.sessions.SignOutStudent(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentMe godoc
// @Summary Current student session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/student/me [get]
func (h *AuthHandler) StudentMe(c *gin.Context) {
	student, ok := h.sessions.CurrentStudent(c.Request.Context())
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "no student signed in"))
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// AdminLogin godoc
// @Summary Administrator sign-in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := bindJSON(c, &req, "invalid login payload"); err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.sessions.SignInAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// AdminLogout godoc
// @Summary Administrator sign-out
// @Tags Authentication
// @Success 204
// @Router /auth/admin/logout [post]
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	if err := h.sessions.SignOutAdmin(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AdminMe godoc
// @Summary Current administrator session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/me [get]
func (h *AuthHandler) AdminMe(c *gin.Context) {
	admin, ok := h.sessions.CurrentAdmin(c.Request.Context())
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "no administrator signed in"))
		return
	}
	response.JSON(c, http.StatusOK, admin)
}

// SignUp godoc
// @Summary Student sign-up
// @Description Register a new student on the roster
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.SignUpRequest true "Sign-up payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := bindJSON(c, &req, "invalid sign-up payload"); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.roster.SignUp(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}
