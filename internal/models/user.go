package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      *string        `gorm:"type:varchar(255)" json:"name"`
	Avatar    *string        `gorm:"type:varchar(512)" json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks          []Task          `gorm:"foreignKey:UserID" json:"-"`
	Categories     []Category      `gorm:"foreignKey:UserID" json:"-"`
	Notifications  []Notification  `gorm:"foreignKey:UserID" json:"-"`
	Communications []Communication `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
