package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/service"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

type readinessProbe interface {
	Available() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	store   readinessProbe
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, store readinessProbe) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the document store accepts writes.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.store == nil || !h.store.Available() {
		response.Error(c, appErrors.ErrStoreUnavailable)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready", "metrics": h.metrics.Snapshot()})
}
