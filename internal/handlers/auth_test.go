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

	"github.com/taskmasterpro/taskmaster-api/internal/identity"
	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	handler *AuthHandler
	ident   *identity.Identity
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	suite.handler = NewAuthHandler(repository.NewUserRepository(suite.db), nil)
	suite.ident = &identity.Identity{
		Subject: "provider-1",
		Email:   "jane@example.com",
		Name:    "Jane Doe",
	}

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set("identity", suite.ident)
	})
	suite.router.GET("/api/auth/profile", suite.handler.GetProfile)
	suite.router.POST("/api/auth/profile", suite.handler.SyncProfile)
	suite.router.POST("/api/auth/send-confirmation", suite.handler.SendConfirmation)
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) request(method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestGetProfile_NotFoundBeforeSync() {
	w := suite.request("GET", "/api/auth/profile", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *AuthHandlerTestSuite) TestSyncProfile_CreatesUser() {
	w := suite.request("POST", "/api/auth/profile", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "jane@example.com", response["email"])
	assert.Equal(suite.T(), "Jane Doe", response["name"])

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AuthHandlerTestSuite) TestSyncProfile_Idempotent() {
	suite.request("POST", "/api/auth/profile", nil)
	suite.request("POST", "/api/auth/profile", nil)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AuthHandlerTestSuite) TestSyncProfile_AppliesOverrides() {
	body, _ := json.Marshal(gin.H{"name": "J. Doe"})
	w := suite.request("POST", "/api/auth/profile", body)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	user := &models.User{}
	suite.Require().NoError(suite.db.First(user, "email = ?", "jane@example.com").Error)
	suite.Require().NotNil(user.Name)
	assert.Equal(suite.T(), "J. Doe", *user.Name)
}

func (suite *AuthHandlerTestSuite) TestGetProfile_AfterSync() {
	suite.request("POST", "/api/auth/profile", nil)

	w := suite.request("GET", "/api/auth/profile", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *AuthHandlerTestSuite) TestSendConfirmation_UnavailableWithoutMailer() {
	body, _ := json.Marshal(gin.H{"email": "jane@example.com", "name": "Jane"})
	w := suite.request("POST", "/api/auth/send-confirmation", body)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
