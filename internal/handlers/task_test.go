package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/constants"
	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
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

	suite.user = &models.User{Email: "test@example.com"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)

	handler := NewTaskHandler(services.NewTaskService(repository.NewTaskRepository(suite.db)))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.user.ID)
	})
	suite.router.GET("/api/tasks", handler.ListTasks)
	suite.router.POST("/api/tasks", handler.CreateTask)
	suite.router.GET("/api/tasks/:id", handler.GetTask)
	suite.router.PUT("/api/tasks/:id", handler.UpdateTask)
	suite.router.DELETE("/api/tasks/:id", handler.DeleteTask)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) request(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) createTask(title string, mutate func(*models.Task)) *models.Task {
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

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	w := suite.request("POST", "/api/tasks", gin.H{
		"title":    "Write proposal",
		"priority": "HIGH",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Write proposal", response["title"])
	assert.Equal(suite.T(), "HIGH", response["priority"])
	assert.Equal(suite.T(), "TODO", response["status"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	w := suite.request("POST", "/api/tasks", gin.H{"description": "no title"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownPriority() {
	w := suite.request("POST", "/api/tasks", gin.H{
		"title":    "Bad",
		"priority": "ASAP",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WithSubtasks() {
	w := suite.request("POST", "/api/tasks", gin.H{
		"title": "Plan event",
		"subtasks": []gin.H{
			{"title": "Book venue", "priority": "high"},
			{"title": "Send invites", "priority": "low"},
		},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	subtasks := response["subtasks"].([]interface{})
	assert.Len(suite.T(), subtasks, 2)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_CompletionRoundTrip() {
	task := suite.createTask("Roundtrip", nil)

	w := suite.request("PUT", "/api/tasks/"+task.ID, gin.H{"status": "COMPLETED"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(suite.T(), response["completed_at"])

	w = suite.request("PUT", "/api/tasks/"+task.ID, gin.H{"status": "TODO"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response["completed_at"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_UnknownStatus() {
	task := suite.createTask("Enum check", nil)

	w := suite.request("PUT", "/api/tasks/"+task.ID, gin.H{"status": "DONE"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ExplicitNullClearsDueDate() {
	due := time.Now().AddDate(0, 0, 2)
	task := suite.createTask("Dated", func(t *models.Task) { t.DueDate = &due })

	w := suite.request("PUT", "/api/tasks/"+task.ID, gin.H{"due_date": nil})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response["due_date"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	w := suite.request("PUT", "/api/tasks/unknown-id", gin.H{"title": "New"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_StatusFilter() {
	suite.createTask("Open", nil)
	suite.createTask("Closed", func(t *models.Task) { t.Status = models.TaskStatusCompleted })

	w := suite.request("GET", "/api/tasks?status=COMPLETED", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["tasks"].([]interface{})
	suite.Require().Len(tasks, 1)
	first := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), "Closed", first["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_UnknownStatus() {
	w := suite.request("GET", "/api/tasks?status=FINISHED", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_ProjectsFilter() {
	parent := suite.createTask("Project", nil)
	suite.createTask("Child", func(t *models.Task) { t.ParentID = &parent.ID })

	w := suite.request("GET", "/api/tasks?type=projects", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	w := suite.request("GET", "/api/tasks/nope", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	task := suite.createTask("Removable", nil)

	w := suite.request("DELETE", "/api/tasks/"+task.ID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
