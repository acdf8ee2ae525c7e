package dto

import (
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// ScheduleDTO represents a weekly availability window in API responses.
type ScheduleDTO struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	IsActive  bool   `json:"is_active"`
}

// CategoryDTO represents a category in API responses.
type CategoryDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Color       string        `json:"color"`
	Description *string       `json:"description"`
	IsDefault   bool          `json:"is_default"`
	Schedules   []ScheduleDTO `json:"schedules"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToCategoryDTO converts a Category model to CategoryDTO.
func ToCategoryDTO(category models.Category) CategoryDTO {
	schedules := make([]ScheduleDTO, len(category.Schedules))
	for i, sched := range category.Schedules {
		schedules[i] = ScheduleDTO{
			ID:        sched.ID,
			DayOfWeek: sched.DayOfWeek,
			StartHour: sched.StartHour,
			EndHour:   sched.EndHour,
			IsActive:  sched.IsActive,
		}
	}

	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Color:       category.Color,
		Description: category.Description,
		IsDefault:   category.IsDefault,
		Schedules:   schedules,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ToCategoryDTOs converts a slice of categories.
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		dtos[i] = ToCategoryDTO(category)
	}
	return dtos
}
