package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskDependency is an edge in the many-to-many self-join on Task:
// TaskID depends on DependencyID. Edges are read-time only; no cycle
// detection is enforced.
type TaskDependency struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID       string    `gorm:"type:varchar(36);not null;index:idx_task_dependency,unique" json:"task_id"`
	DependencyID string    `gorm:"type:varchar(36);not null;index:idx_task_dependency,unique" json:"dependency_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations. Dependency is the blocking task; Dependent is the task
	// waiting on it.
	Dependency *Task `gorm:"foreignKey:DependencyID;references:ID" json:"dependency,omitempty"`
	Dependent  *Task `gorm:"foreignKey:TaskID;references:ID" json:"dependent,omitempty"`
}

func (d *TaskDependency) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
