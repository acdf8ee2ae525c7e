package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
	"github.com/taskmasterpro/taskmaster-api/internal/utils"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)

// TaskService implements the task rules: enum validation at the
// boundary, completion timestamp transitions, nested subtask creation,
// and recurring-task bookkeeping.
type TaskService struct {
	tasks repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// SubtaskInput is a nested subtask in a create request, as produced by
// the AI review flow (lowercase priorities, suggested due dates).
type SubtaskInput struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	SuggestedDueDate *time.Time `json:"suggested_due_date"`
	EstimatedTime    *int       `json:"estimated_time"`
	Priority         string     `json:"priority"`
}

// CreateTaskInput carries a validated create request.
type CreateTaskInput struct {
	Title               string
	Description         string
	DueDate             *time.Time
	Priority            string
	CategoryID          *string
	ParentID            *string
	ResponsibleParty    *string
	Tags                []string
	EstimatedTime       *int
	IsRecurring         bool
	RecurrenceRule      *string
	SuccessCriteria     *string
	AISuggestions       map[string]interface{}
	SelectedSuggestions []string
	Subtasks            []SubtaskInput
}

// Create persists a new task (and nested subtasks) for the user.
// Unknown priority values are rejected rather than defaulted.
func (s *TaskService) Create(userID string, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, input.Priority)
		}
	}

	tags := make(models.StringList, 0, len(input.Tags))
	tags = append(tags, input.Tags...)

	suggestions := models.JSONMap{}
	for k, v := range input.AISuggestions {
		suggestions[k] = v
	}
	if input.SelectedSuggestions != nil {
		suggestions["selectedSuggestions"] = input.SelectedSuggestions
	}

	task := &models.Task{
		Title:            title,
		Description:      input.Description,
		Status:           models.TaskStatusTodo,
		Priority:         priority,
		DueDate:          input.DueDate,
		CategoryID:       input.CategoryID,
		ParentID:         input.ParentID,
		ResponsibleParty: input.ResponsibleParty,
		Tags:             tags,
		EstimatedTime:    input.EstimatedTime,
		IsRecurring:      input.IsRecurring,
		RecurrenceRule:   input.RecurrenceRule,
		SuccessCriteria:  input.SuccessCriteria,
		AISuggestions:    suggestions,
		UserID:           userID,
	}

	if input.IsRecurring && input.RecurrenceRule != nil {
		next := utils.NextOccurrence(*input.RecurrenceRule, time.Now())
		task.NextOccurrence = &next
	}

	for _, sub := range input.Subtasks {
		subPriority := subtaskPriority(sub.Priority)
		task.Subtasks = append(task.Subtasks, models.Task{
			Title:         sub.Title,
			Description:   sub.Description,
			DueDate:       sub.SuggestedDueDate,
			EstimatedTime: sub.EstimatedTime,
			Priority:      subPriority,
			Status:        models.TaskStatusTodo,
			UserID:        userID,
		})
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	return s.tasks.FindByID(task.ID)
}

// subtaskPriority maps the review flow's lowercase priorities onto the
// closed enum; anything unrecognized lands on LOW.
func subtaskPriority(p string) models.TaskPriority {
	switch strings.ToLower(p) {
	case "high":
		return models.TaskPriorityHigh
	case "medium":
		return models.TaskPriorityMedium
	default:
		return models.TaskPriorityLow
	}
}

// ListTasksQuery carries the list endpoint's filters.
type ListTasksQuery struct {
	Status       string
	CategoryID   string
	ParentID     string // "null" selects top-level tasks
	ProjectsOnly bool
}

// List returns the user's tasks matching the query.
func (s *TaskService) List(userID string, query ListTasksQuery) ([]models.Task, error) {
	filter := repository.TaskFilter{
		UserID:       userID,
		ProjectsOnly: query.ProjectsOnly,
	}

	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, query.Status)
		}
		filter.Status = &status
	}
	if query.CategoryID != "" {
		filter.CategoryID = &query.CategoryID
	}
	switch query.ParentID {
	case "":
	case "null":
		filter.ParentIsNull = true
	default:
		parentID := query.ParentID
		filter.ParentID = &parentID
	}

	return s.tasks.List(filter)
}

// Get loads one of the user's tasks with its full relation tree.
func (s *TaskService) Get(id, userID string) (*models.Task, error) {
	task, err := s.tasks.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// UpdateTaskInput carries a partial update. Pointer fields are applied
// when non-nil; nullable columns additionally use Set flags so an
// explicit null can be distinguished from omission.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	Status           *string
	Priority         *string
	DueDateSet       bool
	DueDate          *time.Time
	CategorySet      bool
	CategoryID       *string
	ParentSet        bool
	ParentID         *string
	ResponsibleParty *string
	Tags             *[]string
	EstimatedTimeSet bool
	EstimatedTime    *int
	ActualTimeSet    bool
	ActualTime       *int
	IsRecurring      *bool
	RecurrenceRule   *string
}

// Update applies the provided fields to one of the user's tasks.
// Entering COMPLETED stamps CompletedAt; leaving it clears the stamp.
func (s *TaskService) Update(id, userID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, *input.Priority)
		}
		task.Priority = priority
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *input.Status)
		}
		applyStatusTransition(task, status)
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}
	if input.CategorySet {
		task.CategoryID = input.CategoryID
	}
	if input.ParentSet {
		task.ParentID = input.ParentID
	}
	if input.ResponsibleParty != nil {
		task.ResponsibleParty = input.ResponsibleParty
	}
	if input.Tags != nil {
		task.Tags = models.StringList(*input.Tags)
	}
	if input.EstimatedTimeSet {
		task.EstimatedTime = input.EstimatedTime
	}
	if input.ActualTimeSet {
		task.ActualTime = input.ActualTime
	}
	if input.IsRecurring != nil {
		task.IsRecurring = *input.IsRecurring
	}
	if input.RecurrenceRule != nil {
		task.RecurrenceRule = input.RecurrenceRule
	}

	// Clear preloaded associations so Save touches only the row itself.
	task.Subtasks = nil
	task.Dependencies = nil
	task.Dependents = nil
	task.Category = nil

	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}

	return s.tasks.FindOwned(id, userID)
}

// applyStatusTransition updates status and the completion timestamp:
// COMPLETED stamps CompletedAt, any other status clears it when the
// task was previously completed.
func applyStatusTransition(task *models.Task, status models.TaskStatus) {
	previous := task.Status
	task.Status = status

	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else if previous == models.TaskStatusCompleted {
		task.CompletedAt = nil
	}
}

// Delete removes one of the user's tasks with its subtask tree and
// dependency edges.
func (s *TaskService) Delete(id, userID string) error {
	if _, err := s.tasks.FindOwned(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return s.tasks.Delete(id)
}
