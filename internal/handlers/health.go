package handlers

import (
	"net/http"

	"taskpilot/backend/internal/monitoring"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *monitoring.HealthChecker
}

func NewHealthHandler(checker *monitoring.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(c *gin.Context) {
	healthy, checks := h.checker.Run(c.Request.Context())

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}

func (h *HealthHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, monitoring.Snapshot())
}
