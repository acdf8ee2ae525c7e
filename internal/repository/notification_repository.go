package repository

import (
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateNotification appends a notification record.
func (r *GormNotificationRepository) CreateNotification(n *models.Notification) error {
	return r.db.Create(n).Error
}

// CreateCommunication appends a communication record.
func (r *GormNotificationRepository) CreateCommunication(comm *models.Communication) error {
	return r.db.Create(comm).Error
}

// ListByUser returns the user's notifications, newest first.
func (r *GormNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
