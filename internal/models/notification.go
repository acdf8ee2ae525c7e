package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeReminder   NotificationType = "REMINDER"
	NotificationTypeDependency NotificationType = "DEPENDENCY"
	NotificationTypeOverdue    NotificationType = "OVERDUE"
)

// Notification is an append-only record produced by the batch jobs; it
// has no lifecycle beyond creation and read-side display.
type Notification struct {
	ID        string           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	TaskID    *string          `gorm:"type:varchar(36);index" json:"task_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User User  `gorm:"foreignKey:UserID" json:"-"`
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
