package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/calendar"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// defaultTaskDuration (minutes) is used when a task carries no estimate.
const defaultTaskDuration = 60

// defaultWindows approximate a working week for users who have not
// configured category schedules yet.
var defaultWindows = []calendar.Window{
	{DayOfWeek: 1, StartHour: 9, EndHour: 17},
	{DayOfWeek: 2, StartHour: 9, EndHour: 17},
	{DayOfWeek: 3, StartHour: 9, EndHour: 17},
	{DayOfWeek: 4, StartHour: 9, EndHour: 17},
	{DayOfWeek: 5, StartHour: 9, EndHour: 17},
}

// ScheduleService finds optimal working slots for tasks against the
// user's category availability and connected calendars.
type ScheduleService struct {
	tasks        repository.TaskRepository
	categories   repository.CategoryRepository
	integrations repository.CalendarIntegrationRepository
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	tasks repository.TaskRepository,
	categories repository.CategoryRepository,
	integrations repository.CalendarIntegrationRepository,
) *ScheduleService {
	return &ScheduleService{tasks: tasks, categories: categories, integrations: integrations}
}

// SuggestInput carries a slot suggestion request. Preferred windows are
// optional; when present they bias slot selection.
type SuggestInput struct {
	TaskID           string            `json:"task_id"`
	PreferredWindows []calendar.Window `json:"preferred_windows"`
}

// Suggest proposes a start and end time for the task inside its
// category's availability windows, avoiding calendar conflicts.
// Returns calendar.ErrNoAvailableSlots when nothing fits before the
// due date.
func (s *ScheduleService) Suggest(ctx context.Context, userID string, input SuggestInput) (*calendar.Suggestion, error) {
	task, err := s.tasks.FindOwned(input.TaskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	duration := defaultTaskDuration
	if task.EstimatedTime != nil && *task.EstimatedTime > 0 {
		duration = *task.EstimatedTime
	}

	dueDate := time.Now().AddDate(0, 0, 7)
	if task.DueDate != nil {
		dueDate = *task.DueDate
	}

	windows := defaultWindows
	if task.CategoryID != nil {
		schedules, err := s.categories.ActiveSchedules(*task.CategoryID)
		if err != nil {
			return nil, err
		}
		if len(schedules) > 0 {
			windows = make([]calendar.Window, 0, len(schedules))
			for _, sched := range schedules {
				windows = append(windows, calendar.Window{
					DayOfWeek: sched.DayOfWeek,
					StartHour: sched.StartHour,
					EndHour:   sched.EndHour,
				})
			}
		}
	}

	manager, err := calendar.ManagerForUser(userID, s.integrations)
	if err != nil {
		return nil, err
	}

	return manager.SuggestOptimalSchedule(ctx, duration, dueDate, windows, input.PreferredWindows)
}
