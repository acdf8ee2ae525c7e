package repository

import (
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// GormCalendarIntegrationRepository is a GORM implementation of
// CalendarIntegrationRepository.
type GormCalendarIntegrationRepository struct {
	db *gorm.DB
}

// NewCalendarIntegrationRepository creates a new CalendarIntegrationRepository.
func NewCalendarIntegrationRepository(db *gorm.DB) CalendarIntegrationRepository {
	return &GormCalendarIntegrationRepository{db: db}
}

// ListActiveByUser returns the user's active calendar integrations.
func (r *GormCalendarIntegrationRepository) ListActiveByUser(userID string) ([]models.CalendarIntegration, error) {
	var integrations []models.CalendarIntegration
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&integrations).Error
	if err != nil {
		return nil, err
	}
	return integrations, nil
}
