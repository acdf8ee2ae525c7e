package dto

import (
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// CategoryRefDTO is the embedded category on task responses.
type CategoryRefDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DependencyDTO is one dependency edge with the referenced task.
type DependencyDTO struct {
	ID     string      `json:"id"`
	TaskID string      `json:"task_id"`
	Task   *TaskRefDTO `json:"task,omitempty"`
}

// TaskRefDTO is a minimal task reference used inside dependency edges.
type TaskRefDTO struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Status models.TaskStatus `json:"status"`
}

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Status           models.TaskStatus   `json:"status"`
	Priority         models.TaskPriority `json:"priority"`
	DueDate          *time.Time          `json:"due_date"`
	CompletedAt      *time.Time          `json:"completed_at"`
	EstimatedTime    *int                `json:"estimated_time"`
	ActualTime       *int                `json:"actual_time"`
	ResponsibleParty *string             `json:"responsible_party"`
	Tags             []string            `json:"tags"`
	IsRecurring      bool                `json:"is_recurring"`
	RecurrenceRule   *string             `json:"recurrence_rule,omitempty"`
	NextOccurrence   *time.Time          `json:"next_occurrence,omitempty"`
	SuccessCriteria  *string             `json:"success_criteria"`
	AISuggestions    models.JSONMap      `json:"ai_suggestions,omitempty"`
	CategoryID       *string             `json:"category_id"`
	ParentID         *string             `json:"parent_id"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Category         *CategoryRefDTO     `json:"category,omitempty"`
	Subtasks         []TaskDTO           `json:"subtasks,omitempty"`
	Dependencies     []DependencyDTO     `json:"dependencies,omitempty"`
	Dependents       []DependencyDTO     `json:"dependents,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO, carrying whatever
// relations were preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		Priority:         task.Priority,
		DueDate:          task.DueDate,
		CompletedAt:      task.CompletedAt,
		EstimatedTime:    task.EstimatedTime,
		ActualTime:       task.ActualTime,
		ResponsibleParty: task.ResponsibleParty,
		Tags:             task.Tags,
		IsRecurring:      task.IsRecurring,
		RecurrenceRule:   task.RecurrenceRule,
		NextOccurrence:   task.NextOccurrence,
		SuccessCriteria:  task.SuccessCriteria,
		AISuggestions:    task.AISuggestions,
		CategoryID:       task.CategoryID,
		ParentID:         task.ParentID,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}

	if dto.Tags == nil {
		dto.Tags = []string{}
	}

	if task.Category != nil {
		dto.Category = &CategoryRefDTO{
			ID:    task.Category.ID,
			Name:  task.Category.Name,
			Color: task.Category.Color,
		}
	}

	if len(task.Subtasks) > 0 {
		dto.Subtasks = make([]TaskDTO, len(task.Subtasks))
		for i, sub := range task.Subtasks {
			dto.Subtasks[i] = ToTaskDTO(sub)
		}
	}

	dto.Dependencies = toDependencyDTOs(task.Dependencies, func(edge models.TaskDependency) *models.Task {
		return edge.Dependency
	})
	dto.Dependents = toDependencyDTOs(task.Dependents, func(edge models.TaskDependency) *models.Task {
		return edge.Dependent
	})

	return dto
}

func toDependencyDTOs(edges []models.TaskDependency, pick func(models.TaskDependency) *models.Task) []DependencyDTO {
	if len(edges) == 0 {
		return nil
	}
	dtos := make([]DependencyDTO, len(edges))
	for i, edge := range edges {
		dtos[i] = DependencyDTO{ID: edge.ID, TaskID: edge.TaskID}
		if task := pick(edge); task != nil {
			dtos[i].Task = &TaskRefDTO{
				ID:     task.ID,
				Title:  task.Title,
				Status: task.Status,
			}
		}
	}
	return dtos
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
