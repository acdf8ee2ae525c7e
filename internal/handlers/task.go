package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/dto"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// TaskHandler serves the task CRUD endpoints.
type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks returns the user's tasks. Supports status, category_id,
// parent_id (including parent_id=null for top-level tasks), and
// type=projects filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	query := services.ListTasksQuery{
		Status:       c.Query("status"),
		CategoryID:   c.Query("category_id"),
		ParentID:     c.Query("parent_id"),
		ProjectsOnly: c.Query("type") == "projects",
	}

	tasks, err := h.tasks.List(userID, query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

type createTaskRequest struct {
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	DueDate             *time.Time              `json:"due_date"`
	Priority            string                  `json:"priority"`
	CategoryID          *string                 `json:"category_id"`
	ParentID            *string                 `json:"parent_id"`
	ResponsibleParty    *string                 `json:"responsible_party"`
	Tags                []string                `json:"tags"`
	EstimatedTime       *int                    `json:"estimated_time"`
	IsRecurring         bool                    `json:"is_recurring"`
	RecurrenceRule      *string                 `json:"recurrence_rule"`
	SuccessCriteria     *string                 `json:"success_criteria"`
	AISuggestions       map[string]interface{}  `json:"ai_suggestions"`
	SelectedSuggestions []string                `json:"selected_suggestions"`
	Subtasks            []services.SubtaskInput `json:"subtasks"`
}

// CreateTask creates a task, optionally with nested subtasks from the
// AI review flow.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(userID, services.CreateTaskInput{
		Title:               req.Title,
		Description:         req.Description,
		DueDate:             req.DueDate,
		Priority:            req.Priority,
		CategoryID:          req.CategoryID,
		ParentID:            req.ParentID,
		ResponsibleParty:    req.ResponsibleParty,
		Tags:                req.Tags,
		EstimatedTime:       req.EstimatedTime,
		IsRecurring:         req.IsRecurring,
		RecurrenceRule:      req.RecurrenceRule,
		SuccessCriteria:     req.SuccessCriteria,
		AISuggestions:       req.AISuggestions,
		SelectedSuggestions: req.SelectedSuggestions,
		Subtasks:            req.Subtasks,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired),
			errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one task with its full relation tree.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.tasks.Get(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The raw body is inspected so an
// explicit null on a nullable field can be told apart from omission.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Update(c.Param("id"), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// buildUpdateInput decodes present fields into an UpdateTaskInput.
func buildUpdateInput(raw map[string]json.RawMessage) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	decode := func(key string, target interface{}) (bool, error) {
		value, present := raw[key]
		if !present {
			return false, nil
		}
		if err := json.Unmarshal(value, target); err != nil {
			return false, errors.New("invalid value for field " + key)
		}
		return true, nil
	}

	if _, err := decode("title", &input.Title); err != nil {
		return input, err
	}
	if _, err := decode("description", &input.Description); err != nil {
		return input, err
	}
	if _, err := decode("status", &input.Status); err != nil {
		return input, err
	}
	if _, err := decode("priority", &input.Priority); err != nil {
		return input, err
	}
	if _, err := decode("responsible_party", &input.ResponsibleParty); err != nil {
		return input, err
	}
	if _, err := decode("tags", &input.Tags); err != nil {
		return input, err
	}
	if _, err := decode("is_recurring", &input.IsRecurring); err != nil {
		return input, err
	}
	if _, err := decode("recurrence_rule", &input.RecurrenceRule); err != nil {
		return input, err
	}

	var err error
	if input.DueDateSet, err = decode("due_date", &input.DueDate); err != nil {
		return input, err
	}
	if input.CategorySet, err = decode("category_id", &input.CategoryID); err != nil {
		return input, err
	}
	if input.ParentSet, err = decode("parent_id", &input.ParentID); err != nil {
		return input, err
	}
	if input.EstimatedTimeSet, err = decode("estimated_time", &input.EstimatedTime); err != nil {
		return input, err
	}
	if input.ActualTimeSet, err = decode("actual_time", &input.ActualTime); err != nil {
		return input, err
	}

	return input, nil
}

// DeleteTask removes a task with its subtask tree.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.tasks.Delete(c.Param("id"), userID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
