package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// Valid reports whether the status is one of the closed set. Unknown
// values are rejected at the API boundary rather than defaulted.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// StringList is a string slice persisted as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for StringList", value)
}

// JSONMap is a free-form JSON object column (AI suggestion blobs).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported type %T for JSONMap", value)
}

// Task is a self-referential tree node: a task without a parent is a
// project, a task with a parent is a subtask.
type Task struct {
	ID               string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title            string       `gorm:"not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	Status           TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Priority         TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	DueDate          *time.Time   `json:"due_date"`
	CompletedAt      *time.Time   `json:"completed_at"`
	EstimatedTime    *int         `json:"estimated_time"`
	ActualTime       *int         `json:"actual_time"`
	ResponsibleParty *string      `gorm:"type:varchar(255)" json:"responsible_party"`
	Tags             StringList   `gorm:"type:text" json:"tags"`
	IsRecurring      bool         `gorm:"not null;default:false" json:"is_recurring"`
	RecurrenceRule   *string      `gorm:"type:varchar(255)" json:"recurrence_rule"`
	NextOccurrence   *time.Time   `json:"next_occurrence"`
	SuccessCriteria  *string      `gorm:"type:text" json:"success_criteria"`
	AISuggestions    JSONMap      `gorm:"type:text" json:"ai_suggestions"`

	UserID     string  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CategoryID *string `gorm:"type:varchar(36);index" json:"category_id"`
	ParentID   *string `gorm:"type:varchar(36);index" json:"parent_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User         User             `gorm:"foreignKey:UserID" json:"-"`
	Category     *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Parent       *Task            `gorm:"foreignKey:ParentID" json:"-"`
	Subtasks     []Task           `gorm:"foreignKey:ParentID" json:"subtasks,omitempty"`
	Dependencies []TaskDependency `gorm:"foreignKey:TaskID" json:"dependencies,omitempty"`
	Dependents   []TaskDependency `gorm:"foreignKey:DependencyID" json:"dependents,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsProject reports whether the task sits at the top of a hierarchy.
func (t *Task) IsProject() bool {
	return t.ParentID == nil
}
