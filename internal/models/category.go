package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups tasks and carries the weekly availability windows the
// scheduler draws slots from. At most one category per user is flagged
// default; the default category cannot be deleted.
type Category struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Color       string    `gorm:"type:varchar(20);not null;default:'#007AFF'" json:"color"`
	Description *string   `gorm:"type:text" json:"description"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	UserID      string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User      User               `gorm:"foreignKey:UserID" json:"-"`
	Schedules []CategorySchedule `gorm:"foreignKey:CategoryID" json:"schedules,omitempty"`
	Tasks     []Task             `gorm:"foreignKey:CategoryID" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategorySchedule is a recurring weekly availability window: work in
// this category is expected on DayOfWeek between StartHour and EndHour.
type CategorySchedule struct {
	ID         string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CategoryID string    `gorm:"type:varchar(36);not null;index" json:"category_id"`
	DayOfWeek  int       `gorm:"not null" json:"day_of_week"` // 0 = Sunday
	StartHour  int       `gorm:"not null" json:"start_hour"`
	EndHour    int       `gorm:"not null" json:"end_hour"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *CategorySchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
