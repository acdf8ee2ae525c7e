package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunicationType string

const (
	CommunicationTypeNote CommunicationType = "NOTE"
)

// Communication stores AI batch output (daily assessments) as JSON text
// for later read-side retrieval.
type Communication struct {
	ID        string            `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string            `gorm:"type:varchar(36);not null;index" json:"user_id"`
	TaskID    *string           `gorm:"type:varchar(36);index" json:"task_id"`
	Type      CommunicationType `gorm:"type:varchar(20);not null" json:"type"`
	Subject   string            `gorm:"type:varchar(255);not null" json:"subject"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time         `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
