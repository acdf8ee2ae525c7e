package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// CronHandler exposes the batch jobs over HTTP so an external cron
// runner can trigger them. Requests are guarded by the shared cron
// secret, not user auth.
type CronHandler struct {
	assessment *services.AssessmentService
}

func NewCronHandler(assessment *services.AssessmentService) *CronHandler {
	return &CronHandler{assessment: assessment}
}

// DailyAssessment runs the daily planning assessment for every user.
func (h *CronHandler) DailyAssessment(c *gin.Context) {
	result, err := h.assessment.RunDailyAssessment(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DependencyCheck flags blocked and blocking tasks for every user.
func (h *CronHandler) DependencyCheck(c *gin.Context) {
	result, err := h.assessment.RunDependencyCheck(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
