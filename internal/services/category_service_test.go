package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/constants"
	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// CategoryServiceTestSuite defines the test suite for CategoryService
type CategoryServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CategoryService
	user    *models.User
}

// SetupTest runs before each test
func (suite *CategoryServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.CategorySchedule{},
		&models.Task{},
		&models.TaskDependency{},
	)
	suite.Require().NoError(err)

	suite.service = NewCategoryService(
		repository.NewCategoryRepository(suite.db),
		repository.NewTaskRepository(suite.db),
	)

	suite.user = &models.User{Email: "test@example.com"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

// TearDownTest runs after each test
func (suite *CategoryServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryServiceTestSuite) TestCreate_DefaultColorAndSchedules() {
	category, err := suite.service.Create(suite.user.ID, CategoryInput{
		Name: "Deep Work",
		Schedules: []ScheduleInput{
			{DayOfWeek: 1, StartHour: 9, EndHour: 12},
			{DayOfWeek: 3, StartHour: 14, EndHour: 17},
		},
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), constants.DefaultCategoryColor, category.Color)
	suite.Require().Len(category.Schedules, 2)
	assert.True(suite.T(), category.Schedules[0].IsActive)
}

func (suite *CategoryServiceTestSuite) TestCreate_NameRequired() {
	_, err := suite.service.Create(suite.user.ID, CategoryInput{Name: "  "})
	assert.ErrorIs(suite.T(), err, ErrCategoryNameRequired)
}

func (suite *CategoryServiceTestSuite) TestUpdate_ReplacesSchedules() {
	category, err := suite.service.Create(suite.user.ID, CategoryInput{
		Name: "Admin",
		Schedules: []ScheduleInput{
			{DayOfWeek: 1, StartHour: 9, EndHour: 10},
			{DayOfWeek: 2, StartHour: 9, EndHour: 10},
		},
	})
	suite.Require().NoError(err)

	updated, err := suite.service.Update(category.ID, suite.user.ID, CategoryInput{
		Name: "Administration",
		Schedules: []ScheduleInput{
			{DayOfWeek: 5, StartHour: 13, EndHour: 15},
		},
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Administration", updated.Name)
	suite.Require().Len(updated.Schedules, 1)
	assert.Equal(suite.T(), 5, updated.Schedules[0].DayOfWeek)

	var scheduleCount int64
	suite.db.Model(&models.CategorySchedule{}).Count(&scheduleCount)
	assert.Equal(suite.T(), int64(1), scheduleCount)
}

func (suite *CategoryServiceTestSuite) TestDelete_RejectsDefaultCategory() {
	category := &models.Category{
		Name:      "Inbox",
		Color:     "#CCCCCC",
		IsDefault: true,
		UserID:    suite.user.ID,
	}
	suite.Require().NoError(suite.db.Create(category).Error)

	err := suite.service.Delete(category.ID, suite.user.ID)
	assert.ErrorIs(suite.T(), err, ErrCategoryIsDefault)
}

func (suite *CategoryServiceTestSuite) TestDelete_RejectsCategoryWithTasks() {
	category, err := suite.service.Create(suite.user.ID, CategoryInput{Name: "Errands"})
	suite.Require().NoError(err)

	task := &models.Task{
		Title:      "Buy milk",
		Status:     models.TaskStatusTodo,
		UserID:     suite.user.ID,
		CategoryID: &category.ID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	err = suite.service.Delete(category.ID, suite.user.ID)
	assert.ErrorIs(suite.T(), err, ErrCategoryHasTasks)
}

func (suite *CategoryServiceTestSuite) TestDelete_CascadesSchedules() {
	category, err := suite.service.Create(suite.user.ID, CategoryInput{
		Name: "Evenings",
		Schedules: []ScheduleInput{
			{DayOfWeek: 2, StartHour: 19, EndHour: 21},
		},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Delete(category.ID, suite.user.ID))

	var scheduleCount int64
	suite.db.Model(&models.CategorySchedule{}).Count(&scheduleCount)
	assert.Equal(suite.T(), int64(0), scheduleCount)
}

func (suite *CategoryServiceTestSuite) TestDelete_NotFound() {
	err := suite.service.Delete("missing-id", suite.user.ID)
	assert.ErrorIs(suite.T(), err, ErrCategoryNotFound)
}

func (suite *CategoryServiceTestSuite) TestList_DefaultsFirst() {
	_, err := suite.service.Create(suite.user.ID, CategoryInput{Name: "Alpha"})
	suite.Require().NoError(err)

	def := &models.Category{
		Name:      "Zulu",
		Color:     "#333333",
		IsDefault: true,
		UserID:    suite.user.ID,
	}
	suite.Require().NoError(suite.db.Create(def).Error)

	categories, err := suite.service.List(suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(categories, 2)
	assert.Equal(suite.T(), "Zulu", categories[0].Name)
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
