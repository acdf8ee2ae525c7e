package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// AssessmentServiceTestSuite defines the test suite for the batch jobs
type AssessmentServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AssessmentService
	user    *models.User
}

// SetupTest runs before each test
func (suite *AssessmentServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.CategorySchedule{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Notification{},
		&models.Communication{},
	)
	suite.Require().NoError(err)

	// The clientless AI service degrades to empty assessments, which is
	// exactly what the jobs must tolerate.
	suite.service = NewAssessmentService(
		repository.NewUserRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewNotificationRepository(suite.db),
		&AIService{},
	)

	suite.user = &models.User{Email: "test@example.com"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

// TearDownTest runs after each test
func (suite *AssessmentServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AssessmentServiceTestSuite) createTask(title string, mutate func(*models.Task)) *models.Task {
	task := &models.Task{
		Title:  title,
		Status: models.TaskStatusTodo,
		UserID: suite.user.ID,
	}
	if mutate != nil {
		mutate(task)
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *AssessmentServiceTestSuite) TestDailyAssessment_RecordsPlanAndNote() {
	suite.createTask("Open task", nil)

	result, err := suite.service.RunDailyAssessment(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, result.UsersProcessed)
	assert.Equal(suite.T(), 0, result.UsersFailed)

	var notifications []models.Notification
	suite.db.Find(&notifications)
	suite.Require().Len(notifications, 1)
	assert.Equal(suite.T(), models.NotificationTypeReminder, notifications[0].Type)
	assert.Equal(suite.T(), suite.user.ID, notifications[0].UserID)

	var communications []models.Communication
	suite.db.Find(&communications)
	suite.Require().Len(communications, 1)
	assert.Equal(suite.T(), models.CommunicationTypeNote, communications[0].Type)
	assert.Contains(suite.T(), communications[0].Content, "todayPlan")
}

func (suite *AssessmentServiceTestSuite) TestDailyAssessment_CoversEveryUser() {
	other := &models.User{Email: "other@example.com"}
	suite.Require().NoError(suite.db.Create(other).Error)

	result, err := suite.service.RunDailyAssessment(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, result.UsersProcessed)

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(2), count)
}

// noonToday is safely inside the [midnight, midnight+24h) window the
// dependency check scans.
func noonToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
}

func (suite *AssessmentServiceTestSuite) TestDependencyCheck_FlagsBlockedTask() {
	dueToday := noonToday()
	blocked := suite.createTask("Blocked task", func(t *models.Task) { t.DueDate = &dueToday })
	blocker := suite.createTask("Blocker task", nil)

	edge := &models.TaskDependency{TaskID: blocked.ID, DependencyID: blocker.ID}
	suite.Require().NoError(suite.db.Create(edge).Error)

	result, err := suite.service.RunDependencyCheck(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, result.UsersProcessed)

	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationTypeDependency).Find(&notifications)
	suite.Require().Len(notifications, 1)
	assert.Contains(suite.T(), notifications[0].Message, "Blocker task")
	suite.Require().NotNil(notifications[0].TaskID)
	assert.Equal(suite.T(), blocked.ID, *notifications[0].TaskID)
}

func (suite *AssessmentServiceTestSuite) TestDependencyCheck_SkipsCompletedDependencies() {
	dueToday := noonToday()
	blocked := suite.createTask("Nearly free", func(t *models.Task) { t.DueDate = &dueToday })
	done := suite.createTask("Done blocker", func(t *models.Task) {
		t.Status = models.TaskStatusCompleted
	})

	edge := &models.TaskDependency{TaskID: blocked.ID, DependencyID: done.ID}
	suite.Require().NoError(suite.db.Create(edge).Error)

	_, err := suite.service.RunDependencyCheck(context.Background())
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *AssessmentServiceTestSuite) TestDependencyCheck_FlagsOverdueBlockers() {
	yesterday := time.Now().AddDate(0, 0, -1)
	overdue := suite.createTask("Overdue blocker", func(t *models.Task) { t.DueDate = &yesterday })
	waiting := suite.createTask("Waiting task", nil)

	edge := &models.TaskDependency{TaskID: waiting.ID, DependencyID: overdue.ID}
	suite.Require().NoError(suite.db.Create(edge).Error)

	_, err := suite.service.RunDependencyCheck(context.Background())
	suite.Require().NoError(err)

	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationTypeOverdue).Find(&notifications)
	suite.Require().Len(notifications, 1)
	assert.Contains(suite.T(), notifications[0].Message, "Waiting task")
}

func TestAssessmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssessmentServiceTestSuite))
}
