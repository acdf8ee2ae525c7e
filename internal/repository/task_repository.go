package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// taskTreePreloads loads the relation set the detail endpoints return:
// category, the nested subtask tree (three levels, as deep as clients
// render), and both directions of the dependency graph.
var taskTreePreloads = []string{
	"Category",
	"Subtasks",
	"Subtasks.Category",
	"Subtasks.Dependencies",
	"Subtasks.Dependencies.Dependency",
	"Subtasks.Subtasks",
	"Subtasks.Subtasks.Category",
	"Subtasks.Subtasks.Subtasks",
	"Dependencies",
	"Dependencies.Dependency",
	"Dependents",
	"Dependents.Dependent",
}

// GormTaskRepository is a GORM implementation of TaskRepository.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a task. Nested subtasks attached to the struct are
// created in the same insert via GORM's association handling.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID loads a task with its full relation set.
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range taskTreePreloads {
		query = query.Preload(p)
	}
	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOwned loads a task only when it belongs to the user.
func (r *GormTaskRepository) FindOwned(id, userID string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range taskTreePreloads {
		query = query.Preload(p)
	}
	if err := query.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).Where("user_id = ?", filter.UserID)

	if filter.ProjectsOnly {
		query = query.Where("parent_id IS NULL")
	} else {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.CategoryID != nil {
			query = query.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.ParentIsNull {
			query = query.Where("parent_id IS NULL")
		} else if filter.ParentID != nil {
			query = query.Where("parent_id = ?", *filter.ParentID)
		}
	}

	var tasks []models.Task
	err := query.
		Preload("Category").
		Preload("Subtasks").
		Preload("Subtasks.Category").
		Preload("Dependencies").
		Preload("Dependencies.Dependency").
		Preload("Dependents").
		Preload("Dependents.Dependent").
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves a modified task.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task, its subtask tree, and all dependency edges
// touching the removed tasks.
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := collectSubtreeIDs(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("task_id IN ? OR dependency_id IN ?", ids, ids).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
	})
}

// collectSubtreeIDs walks the task tree breadth-first and returns the
// root plus every descendant ID.
func collectSubtreeIDs(tx *gorm.DB, rootID string) ([]string, error) {
	ids := []string{rootID}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		var children []string
		if err := tx.Model(&models.Task{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}

	return ids, nil
}

// CountByCategory counts tasks attached to a category.
func (r *GormTaskRepository) CountByCategory(categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// TitlesCompletedBetween returns titles of tasks completed in [from, to).
func (r *GormTaskRepository) TitlesCompletedBetween(userID string, from, to time.Time) ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, models.TaskStatusCompleted, from, to).
		Pluck("title", &titles).Error
	return titles, err
}

// TitlesPending returns titles of the user's TODO/IN_PROGRESS tasks.
func (r *GormTaskRepository) TitlesPending(userID string) ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status IN ?", userID, pendingStatuses()).
		Pluck("title", &titles).Error
	return titles, err
}

// TitlesOverdue returns titles of pending tasks due before the cutoff.
func (r *GormTaskRepository) TitlesOverdue(userID string, before time.Time) ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status IN ? AND due_date < ?", userID, pendingStatuses(), before).
		Pluck("title", &titles).Error
	return titles, err
}

// DueBetweenWithDependencies returns pending tasks due in [from, to)
// with dependency edges and the blocking tasks preloaded.
func (r *GormTaskRepository) DueBetweenWithDependencies(userID string, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Dependencies").
		Preload("Dependencies.Dependency").
		Where("user_id = ? AND status IN ? AND due_date >= ? AND due_date < ?",
			userID, pendingStatuses(), from, to).
		Find(&tasks).Error
	return tasks, err
}

// DependentTitles returns titles of the user's tasks that depend on taskID.
func (r *GormTaskRepository) DependentTitles(userID, taskID string) ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Task{}).
		Joins("JOIN task_dependencies ON task_dependencies.task_id = tasks.id").
		Where("tasks.user_id = ? AND task_dependencies.dependency_id = ?", userID, taskID).
		Pluck("tasks.title", &titles).Error
	return titles, err
}

// OverdueWithDependents returns pending tasks due before the cutoff with
// their dependent edges preloaded.
func (r *GormTaskRepository) OverdueWithDependents(userID string, before time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Dependents").
		Preload("Dependents.Dependent").
		Where("user_id = ? AND status IN ? AND due_date < ?", userID, pendingStatuses(), before).
		Find(&tasks).Error
	return tasks, err
}

func pendingStatuses() []models.TaskStatus {
	return []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress}
}
