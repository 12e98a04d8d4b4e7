package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type portfolioService interface {
	PortfolioPDF(ctx context.Context, number int) ([]byte, error)
	Share(ctx context.Context, number int) (dto.ShareLink, error)
	SharedPortfolio(ctx context.Context, token string) ([]byte, int, error)
}

// PortfolioHandler renders portfolios and serves parent share links.
type PortfolioHandler struct {
	exports portfolioService
}

// NewPortfolioHandler constructs PortfolioHandler.
func NewPortfolioHandler(exports portfolioService) *PortfolioHandler {
	return &PortfolioHandler{exports: exports}
}

// Download godoc
// @Summary Download a student's portfolio
// @Tags Portfolio
// @Produce application/pdf
// @Param number path int true "Student number"
// @Success 200 {file} file
// @Router /admin/students/{number}/portfolio.pdf [get]
func (h *PortfolioHandler) Download(c *gin.Context) {
	withStudent(c, func(number int) {
		body, err := h.exports.PortfolioPDF(c.Request.Context(), number)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Attachment(c, service.PortfolioFilename(number), "application/pdf", body)
	})
}

// Share godoc
// @Summary Issue a parent share link
// @Description Only available when the student consented to parent sharing.
// @Tags Portfolio
// @Produce json
// @Param number path int true "Student number"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/students/{number}/portfolio/share [post]
func (h *PortfolioHandler) Share(c *gin.Context) {
	withStudent(c, func(number int) {
		link, err := h.exports.Share(c.Request.Context(), number)
		reply(c, http.StatusCreated, link, err)
	})
}

// Shared godoc
// @Summary Open a shared portfolio
// @Tags Portfolio
// @Produce application/pdf
// @Param token path string true "Share token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /share/portfolio/{token} [get]
func (h *PortfolioHandler) Shared(c *gin.Context) {
	body, number, err := h.exports.SharedPortfolio(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, service.PortfolioFilename(number), "application/pdf", body)
}
