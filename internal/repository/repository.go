package repository

import (
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks. ParentID
// filtering distinguishes "not sent" (nil ParentID, ParentIsNull false)
// from an explicit top-level filter (ParentIsNull true).
type TaskFilter struct {
	UserID       string
	Status       *models.TaskStatus
	CategoryID   *string
	ParentID     *string
	ParentIsNull bool
	ProjectsOnly bool
}

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	// Create persists a task together with any nested subtasks.
	Create(task *models.Task) error

	// FindByID loads a task with its full relation set: category,
	// nested subtask tree, dependency and dependent edges.
	FindByID(id string) (*models.Task, error)

	// FindOwned loads a task only when it belongs to the user.
	FindOwned(id, userID string) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by due date
	// ascending then creation time descending.
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves a modified task.
	Update(task *models.Task) error

	// Delete removes a task, its subtasks, and all dependency edges
	// touching any of them.
	Delete(id string) error

	// CountByCategory counts tasks attached to a category.
	CountByCategory(categoryID string) (int64, error)

	// TitlesCompletedBetween returns titles of tasks the user completed
	// in [from, to).
	TitlesCompletedBetween(userID string, from, to time.Time) ([]string, error)

	// TitlesPending returns titles of the user's TODO/IN_PROGRESS tasks.
	TitlesPending(userID string) ([]string, error)

	// TitlesOverdue returns titles of pending tasks due before the cutoff.
	TitlesOverdue(userID string, before time.Time) ([]string, error)

	// DueBetweenWithDependencies returns pending tasks due in [from, to)
	// with their dependency edges and blocking tasks preloaded.
	DueBetweenWithDependencies(userID string, from, to time.Time) ([]models.Task, error)

	// DependentTitles returns titles of tasks that depend on the given task.
	DependentTitles(userID, taskID string) ([]string, error)

	// OverdueWithDependents returns pending tasks due before the cutoff
	// with their dependent edges preloaded.
	OverdueWithDependents(userID string, before time.Time) ([]models.Task, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// Create persists a category with its schedule windows.
	Create(category *models.Category) error

	// ListByUser returns the user's categories with schedules, default
	// first then by name.
	ListByUser(userID string) ([]models.Category, error)

	// FindOwned loads a category with schedules when owned by the user.
	FindOwned(id, userID string) (*models.Category, error)

	// Update saves category fields and replaces its schedule windows.
	Update(category *models.Category, schedules []models.CategorySchedule) error

	// Delete removes a category and its schedules.
	Delete(id string) error

	// ActiveSchedules returns the active schedule windows of a category.
	ActiveSchedules(categoryID string) ([]models.CategorySchedule, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)

	// FindOrCreateByEmail resolves the local user row, creating it
	// lazily on first write-side access.
	FindOrCreateByEmail(email string, name, avatar *string) (*models.User, error)

	// Update saves modified profile fields.
	Update(user *models.User) error

	// ListAll returns every user; used by the batch jobs.
	ListAll() ([]models.User, error)
}

// NotificationRepository defines the interface for notification and
// communication records (both append-only).
type NotificationRepository interface {
	CreateNotification(n *models.Notification) error
	CreateCommunication(comm *models.Communication) error
	ListByUser(userID string) ([]models.Notification, error)
}

// CalendarIntegrationRepository exposes the calendar accounts consulted
// by the availability finder.
type CalendarIntegrationRepository interface {
	ListActiveByUser(userID string) ([]models.CalendarIntegration, error)
}
