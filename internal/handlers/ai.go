package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/calendar"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// AIHandler serves the interactive AI planning endpoints. Every
// operation here degrades to an empty result rather than failing the
// request when the model misbehaves; only a missing API key is an
// error (503).
type AIHandler struct {
	ai           *services.AIService
	integrations repository.CalendarIntegrationRepository
}

func NewAIHandler(ai *services.AIService, integrations repository.CalendarIntegrationRepository) *AIHandler {
	return &AIHandler{ai: ai, integrations: integrations}
}

func (h *AIHandler) available(c *gin.Context) bool {
	if h.ai == nil {
		apierrors.ServiceUnavailable(c, "AI assistance is not configured")
		return false
	}
	return true
}

type expandTaskRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	ExistingSubtasks []string `json:"existing_subtasks"`
}

// ExpandTask suggests subtasks, dependencies, and improvements for a
// task.
func (h *AIHandler) ExpandTask(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req expandTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A task title is required")
		return
	}

	result := h.ai.ExpandTask(c.Request.Context(), req.Title, req.Description, req.ExistingSubtasks)
	c.JSON(http.StatusOK, result)
}

type taskAssistanceRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Query          string `json:"query" binding:"required"`
	ProjectContext string `json:"project_context"`
}

// TaskAssistance answers a free-form question about a task.
func (h *AIHandler) TaskAssistance(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req taskAssistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A task title and query are required")
		return
	}

	result := h.ai.GetTaskAssistance(c.Request.Context(), req.Title, req.Description, req.Query, req.ProjectContext)
	c.JSON(http.StatusOK, result)
}

// TaskReview reviews a draft task before creation, cross-referencing
// the user's calendar for scheduling advice.
func (h *AIHandler) TaskReview(c *gin.Context) {
	if !h.available(c) {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var draft services.TaskDraft
	if err := c.ShouldBindJSON(&draft); err != nil || draft.Title == "" {
		apierrors.BadRequest(c, "A draft task with a title is required")
		return
	}

	var events []calendar.Event
	if manager, err := calendar.ManagerForUser(userID, h.integrations); err == nil {
		now := time.Now()
		events = manager.Events(c.Request.Context(), now, now.AddDate(0, 0, 7))
	}

	result := h.ai.ReviewTaskCreation(c.Request.Context(), draft, events)
	c.JSON(http.StatusOK, result)
}

// ContextQuestions generates clarifying questions for a draft task.
func (h *AIHandler) ContextQuestions(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var draft services.TaskDraft
	if err := c.ShouldBindJSON(&draft); err != nil || draft.Title == "" {
		apierrors.BadRequest(c, "A draft task with a title is required")
		return
	}

	questions := h.ai.GenerateContextQuestions(c.Request.Context(), draft)
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
