package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarProvider string

const (
	CalendarProviderGoogle  CalendarProvider = "google"
	CalendarProviderOutlook CalendarProvider = "outlook"
)

// CalendarIntegration links a user to an external calendar account.
// Only active integrations are consulted when fetching events.
type CalendarIntegration struct {
	ID          string           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Provider    CalendarProvider `gorm:"type:varchar(20);not null" json:"provider"`
	AccessToken string           `gorm:"type:text" json:"-"`
	IsActive    bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (i *CalendarIntegration) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
