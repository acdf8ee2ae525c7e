package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/constants"
	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryIsDefault    = errors.New("default categories cannot be deleted")
	ErrCategoryHasTasks     = errors.New("category still has tasks assigned")
)

// CategoryService manages categories and their weekly availability
// schedules.
type CategoryService struct {
	categories repository.CategoryRepository
	tasks      repository.TaskRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repository.CategoryRepository, tasks repository.TaskRepository) *CategoryService {
	return &CategoryService{categories: categories, tasks: tasks}
}

// ScheduleInput is one weekly availability window in a request.
type ScheduleInput struct {
	DayOfWeek int   `json:"day_of_week"`
	StartHour int   `json:"start_hour"`
	EndHour   int   `json:"end_hour"`
	IsActive  *bool `json:"is_active"`
}

// CategoryInput carries a create or update request.
type CategoryInput struct {
	Name        string
	Color       string
	Description *string
	Schedules   []ScheduleInput
}

func buildSchedules(inputs []ScheduleInput) []models.CategorySchedule {
	schedules := make([]models.CategorySchedule, 0, len(inputs))
	for _, in := range inputs {
		active := true
		if in.IsActive != nil {
			active = *in.IsActive
		}
		schedules = append(schedules, models.CategorySchedule{
			DayOfWeek: in.DayOfWeek,
			StartHour: in.StartHour,
			EndHour:   in.EndHour,
			IsActive:  active,
		})
	}
	return schedules
}

// Create persists a new category with its schedules for the user.
func (s *CategoryService) Create(userID string, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultCategoryColor
	}

	category := &models.Category{
		Name:        name,
		Color:       color,
		Description: input.Description,
		UserID:      userID,
		Schedules:   buildSchedules(input.Schedules),
	}

	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns the user's categories with schedules, defaults first.
func (s *CategoryService) List(userID string) ([]models.Category, error) {
	return s.categories.ListByUser(userID)
}

// Get loads one of the user's categories.
func (s *CategoryService) Get(id, userID string) (*models.Category, error) {
	category, err := s.categories.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Update replaces a category's fields and its full schedule set.
func (s *CategoryService) Update(id, userID string, input CategoryInput) (*models.Category, error) {
	category, err := s.categories.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Color != "" {
		category.Color = input.Color
	}
	if input.Description != nil {
		category.Description = input.Description
	}

	category.Schedules = nil
	if err := s.categories.Update(category, buildSchedules(input.Schedules)); err != nil {
		return nil, err
	}

	return s.categories.FindOwned(id, userID)
}

// Delete removes a category. Default categories and categories that
// still have tasks are protected.
func (s *CategoryService) Delete(id, userID string) error {
	category, err := s.categories.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if category.IsDefault {
		return ErrCategoryIsDefault
	}

	count, err := s.tasks.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasTasks
	}

	return s.categories.Delete(id)
}
