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
	"github.com/todoloop/todo-api/internal/constants"
	"github.com/todoloop/todo-api/internal/dto"
	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/repository"
	"github.com/todoloop/todo-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CategoryHandler
	user    *models.User
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Todo{},
		&models.TodoTag{},
	)
	suite.Require().NoError(err)

	suite.handler = NewCategoryHandler(services.NewCategoryService(repository.NewCategoryRepository(suite.db)))

	suite.user = &models.User{Username: "alice", PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryHandlerTestSuite) createAuthContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(constants.ContextKeyUserID, suite.user.ID)

	return c, w
}

func (suite *CategoryHandlerTestSuite) createTestCategory(name string) *models.Category {
	category := &models.Category{
		UserID: suite.user.ID,
		Name:   name,
		Color:  constants.DefaultCategoryColor,
	}
	suite.Require().NoError(suite.db.Create(category).Error)
	return category
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_Success() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/categories", gin.H{
		"name":  "Work",
		"color": "#ff0000",
	})

	suite.handler.CreateCategory(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Work", resp.Name)
	assert.Equal(suite.T(), "#ff0000", resp.Color)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_MissingName() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/categories", gin.H{
		"color": "#ff0000",
	})

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_InvalidColor() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/categories", gin.H{
		"name":  "Work",
		"color": "red",
	})

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_DuplicateName() {
	suite.createTestCategory("Work")

	c, w := suite.createAuthContext(http.MethodPost, "/api/categories", gin.H{
		"name": "Work",
	})

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestListCategories() {
	home := suite.createTestCategory("Home")
	suite.createTestCategory("Work")

	todo := &models.Todo{
		UserID:     suite.user.ID,
		Title:      "todo",
		Status:     models.TodoStatusPending,
		Priority:   models.PriorityMedium,
		CategoryID: &home.ID,
	}
	suite.Require().NoError(suite.db.Create(todo).Error)

	c, w := suite.createAuthContext(http.MethodGet, "/api/categories", nil)

	suite.handler.ListCategories(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Categories []dto.CategoryWithCountDTO `json:"categories"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Categories, 2)
	assert.Equal(suite.T(), "Home", resp.Categories[0].Name)
	assert.EqualValues(suite.T(), 1, resp.Categories[0].TodoCount)
	assert.EqualValues(suite.T(), 0, resp.Categories[1].TodoCount)
}

func (suite *CategoryHandlerTestSuite) TestGetCategory_NotFound() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/categories/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	suite.handler.GetCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUpdateCategory() {
	category := suite.createTestCategory("Work")

	name := "Office"
	c, w := suite.createAuthContext(http.MethodPatch, "/api/categories/"+category.ID, gin.H{
		"name": name,
	})
	c.Params = gin.Params{{Key: "id", Value: category.ID}}

	suite.handler.UpdateCategory(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Office", resp.Name)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory() {
	category := suite.createTestCategory("Work")

	c, w := suite.createAuthContext(http.MethodDelete, "/api/categories/"+category.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: category.ID}}

	suite.handler.DeleteCategory(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
