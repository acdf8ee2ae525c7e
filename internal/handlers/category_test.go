package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
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

	handler := NewCategoryHandler(services.NewCategoryService(
		repository.NewCategoryRepository(suite.db),
		repository.NewTaskRepository(suite.db),
	))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.user.ID)
	})
	suite.router.GET("/api/categories", handler.ListCategories)
	suite.router.POST("/api/categories", handler.CreateCategory)
	suite.router.GET("/api/categories/:id", handler.GetCategory)
	suite.router.PUT("/api/categories/:id", handler.UpdateCategory)
	suite.router.DELETE("/api/categories/:id", handler.DeleteCategory)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryHandlerTestSuite) request(method, url string, body interface{}) *httptest.ResponseRecorder {
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

func (suite *CategoryHandlerTestSuite) TestCreateCategory_WithSchedules() {
	w := suite.request("POST", "/api/categories", gin.H{
		"name": "Deep Work",
		"schedules": []gin.H{
			{"day_of_week": 1, "start_hour": 9, "end_hour": 12},
		},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Deep Work", response["name"])
	assert.Equal(suite.T(), constants.DefaultCategoryColor, response["color"])
	schedules := response["schedules"].([]interface{})
	assert.Len(suite.T(), schedules, 1)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_NameRequired() {
	w := suite.request("POST", "/api/categories", gin.H{"color": "#FF0000"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_DefaultRejected() {
	category := &models.Category{
		Name:      "Inbox",
		Color:     "#CCCCCC",
		IsDefault: true,
		UserID:    suite.user.ID,
	}
	suite.Require().NoError(suite.db.Create(category).Error)

	w := suite.request("DELETE", "/api/categories/"+category.ID, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_WithTasksRejected() {
	category := &models.Category{Name: "Busy", Color: "#CCCCCC", UserID: suite.user.ID}
	suite.Require().NoError(suite.db.Create(category).Error)

	task := &models.Task{
		Title:      "Attached",
		Status:     models.TaskStatusTodo,
		UserID:     suite.user.ID,
		CategoryID: &category.ID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request("DELETE", "/api/categories/"+category.ID, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_Success() {
	category := &models.Category{Name: "Empty", Color: "#CCCCCC", UserID: suite.user.ID}
	suite.Require().NoError(suite.db.Create(category).Error)

	w := suite.request("DELETE", "/api/categories/"+category.ID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUpdateCategory_ReplacesSchedules() {
	category := &models.Category{
		Name:   "Mornings",
		Color:  "#CCCCCC",
		UserID: suite.user.ID,
		Schedules: []models.CategorySchedule{
			{DayOfWeek: 1, StartHour: 8, EndHour: 10, IsActive: true},
		},
	}
	suite.Require().NoError(suite.db.Create(category).Error)

	w := suite.request("PUT", "/api/categories/"+category.ID, gin.H{
		"name": "Afternoons",
		"schedules": []gin.H{
			{"day_of_week": 3, "start_hour": 13, "end_hour": 16},
			{"day_of_week": 4, "start_hour": 13, "end_hour": 16},
		},
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Afternoons", response["name"])
	schedules := response["schedules"].([]interface{})
	assert.Len(suite.T(), schedules, 2)
}

func (suite *CategoryHandlerTestSuite) TestGetCategory_NotFound() {
	w := suite.request("GET", "/api/categories/none", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
