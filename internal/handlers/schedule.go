package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/calendar"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// ScheduleHandler serves the slot suggestion endpoint.
type ScheduleHandler struct {
	schedule *services.ScheduleService
}

func NewScheduleHandler(schedule *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Suggest proposes an optimal time slot for a task inside its
// category's availability windows.
func (h *ScheduleHandler) Suggest(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req services.SuggestInput
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" {
		apierrors.BadRequest(c, "A task_id is required")
		return
	}

	suggestion, err := h.schedule.Suggest(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, calendar.ErrNoAvailableSlots):
			apierrors.BadRequest(c, "No available time slots before the due date")
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
