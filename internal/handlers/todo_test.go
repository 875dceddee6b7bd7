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

// TodoHandlerTestSuite defines the test suite for TodoHandler
type TodoHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TodoHandler
	user    *models.User
}

// SetupTest runs before each test
func (suite *TodoHandlerTestSuite) SetupTest() {
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

	suite.handler = NewTodoHandler(services.NewTodoService(repository.NewTodoRepository(suite.db)))

	suite.user = &models.User{Username: "alice", PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

// TearDownTest runs after each test
func (suite *TodoHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createAuthContext builds a test context carrying the authenticated user id
func (suite *TodoHandlerTestSuite) createAuthContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *TodoHandlerTestSuite) createTestTodo(title string) *models.Todo {
	todo := &models.Todo{
		UserID:   suite.user.ID,
		Title:    title,
		Status:   models.TodoStatusPending,
		Priority: models.PriorityMedium,
	}
	suite.Require().NoError(suite.db.Create(todo).Error)
	return todo
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_Success() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/todos", gin.H{
		"title":    "Buy groceries",
		"priority": "HIGH",
	})

	suite.handler.CreateTodo(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Buy groceries", resp.Title)
	assert.Equal(suite.T(), models.TodoStatusPending, resp.Status)
	assert.Equal(suite.T(), models.PriorityHigh, resp.Priority)
	assert.Equal(suite.T(), suite.user.ID, resp.UserID)
	assert.Empty(suite.T(), resp.Tags)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_MissingTitle() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/todos", gin.H{
		"priority": "HIGH",
	})

	suite.handler.CreateTodo(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_InvalidPriority() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/todos", gin.H{
		"title":    "Buy groceries",
		"priority": "EXTREME",
	})

	suite.handler.CreateTodo(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestGetTodo_Success() {
	todo := suite.createTestTodo("Laundry")

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos/"+todo.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: todo.ID}}

	suite.handler.GetTodo(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), todo.ID, resp.ID)
}

func (suite *TodoHandlerTestSuite) TestGetTodo_NotFound() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/todos/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	suite.handler.GetTodo(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TodoHandlerTestSuite) TestGetTodo_OtherUsersTodo() {
	bob := &models.User{Username: "bob", PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(bob).Error)
	foreign := &models.Todo{
		UserID:   bob.ID,
		Title:    "Private",
		Status:   models.TodoStatusPending,
		Priority: models.PriorityMedium,
	}
	suite.Require().NoError(suite.db.Create(foreign).Error)

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos/"+foreign.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: foreign.ID}}

	suite.handler.GetTodo(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TodoHandlerTestSuite) TestListTodos_Default() {
	suite.createTestTodo("one")
	suite.createTestTodo("two")

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos", nil)

	suite.handler.ListTodos(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TodoListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(suite.T(), resp.Todos, 2)
	assert.Nil(suite.T(), resp.NextCursor)
}

func (suite *TodoHandlerTestSuite) TestListTodos_StatusFilter() {
	done := suite.createTestTodo("done")
	suite.Require().NoError(suite.db.Model(done).Update("status", models.TodoStatusCompleted).Error)
	suite.createTestTodo("open")

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos?status=COMPLETED", nil)

	suite.handler.ListTodos(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TodoListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Todos, 1)
	assert.Equal(suite.T(), "done", resp.Todos[0].Title)
}

func (suite *TodoHandlerTestSuite) TestListTodos_InvalidStatus() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/todos?status=DONE", nil)

	suite.handler.ListTodos(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestListTodos_StaleCursor() {
	suite.createTestTodo("one")

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos?cursor=stale-id", nil)

	suite.handler.ListTodos(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestListTodos_InvalidLimit() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/todos?limit=500", nil)

	suite.handler.ListTodos(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestUpdateTodo_WithTags() {
	todo := suite.createTestTodo("Tagged")
	tag := &models.Tag{Name: "home", Color: "#6b7280"}
	suite.Require().NoError(suite.db.Create(tag).Error)

	c, w := suite.createAuthContext(http.MethodPatch, "/api/todos/"+todo.ID, gin.H{
		"title":   "Tagged and renamed",
		"tag_ids": []string{tag.ID},
	})
	c.Params = gin.Params{{Key: "id", Value: todo.ID}}

	suite.handler.UpdateTodo(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Tagged and renamed", resp.Title)
	suite.Require().Len(resp.Tags, 1)
	assert.Equal(suite.T(), "home", resp.Tags[0].Name)
}

func (suite *TodoHandlerTestSuite) TestUpdateTodo_InvalidStatus() {
	todo := suite.createTestTodo("Pending")

	c, w := suite.createAuthContext(http.MethodPatch, "/api/todos/"+todo.ID, gin.H{
		"status": "DONE",
	})
	c.Params = gin.Params{{Key: "id", Value: todo.ID}}

	suite.handler.UpdateTodo(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestToggleComplete() {
	todo := suite.createTestTodo("Laundry")

	c, w := suite.createAuthContext(http.MethodPost, "/api/todos/"+todo.ID+"/toggle", nil)
	c.Params = gin.Params{{Key: "id", Value: todo.ID}}

	suite.handler.ToggleComplete(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), models.TodoStatusCompleted, resp.Status)
	assert.NotNil(suite.T(), resp.CompletedAt)
}

func (suite *TodoHandlerTestSuite) TestDeleteTodo() {
	todo := suite.createTestTodo("Doomed")

	c, w := suite.createAuthContext(http.MethodDelete, "/api/todos/"+todo.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: todo.ID}}

	suite.handler.DeleteTodo(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Todo{}).Where("id = ?", todo.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *TodoHandlerTestSuite) TestGetStats() {
	done := suite.createTestTodo("done")
	suite.Require().NoError(suite.db.Model(done).Update("status", models.TodoStatusCompleted).Error)
	suite.createTestTodo("open")

	c, w := suite.createAuthContext(http.MethodGet, "/api/todos/stats", nil)

	suite.handler.GetStats(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var stats services.TodoStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(suite.T(), 2, stats.Total)
	assert.EqualValues(suite.T(), 1, stats.Completed)
	assert.Equal(suite.T(), 50, stats.CompletionRate)
}

func TestTodoHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TodoHandlerTestSuite))
}
