package repository

import (
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create persists a category with its schedule windows.
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// ListByUser returns the user's categories with schedules, default
// category first then alphabetical.
func (r *GormCategoryRepository) ListByUser(userID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Preload("Schedules").
		Where("user_id = ?", userID).
		Order("is_default DESC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindOwned loads a category with schedules when owned by the user.
func (r *GormCategoryRepository) FindOwned(id, userID string) (*models.Category, error) {
	var category models.Category
	err := r.db.
		Preload("Schedules").
		First(&category, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update saves category fields and replaces its schedule windows
// wholesale, matching the client's edit model.
func (r *GormCategoryRepository) Update(category *models.Category, schedules []models.CategorySchedule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return err
		}

		if err := tx.Where("category_id = ?", category.ID).
			Delete(&models.CategorySchedule{}).Error; err != nil {
			return err
		}

		for i := range schedules {
			schedules[i].ID = ""
			schedules[i].CategoryID = category.ID
		}
		if len(schedules) > 0 {
			if err := tx.Create(&schedules).Error; err != nil {
				return err
			}
		}

		category.Schedules = schedules
		return nil
	})
}

// Delete removes a category and its schedules.
func (r *GormCategoryRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).
			Delete(&models.CategorySchedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
}

// ActiveSchedules returns the active schedule windows of a category.
func (r *GormCategoryRepository) ActiveSchedules(categoryID string) ([]models.CategorySchedule, error) {
	var schedules []models.CategorySchedule
	err := r.db.
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("day_of_week ASC, start_hour ASC").
		Find(&schedules).Error
	return schedules, err
}
