package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/dto"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// AnalyticsHandler serves the project analytics endpoint. Unlike the
// interactive AI endpoints, AI failures here surface as errors: a
// dashboard with silently missing analysis would be misleading.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ProjectAnalytics computes metrics and runs the AI analysis for a
// project.
func (h *AnalyticsHandler) ProjectAnalytics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	analytics, err := h.analytics.Analyze(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectAnalyticsResponse(analytics))
}
