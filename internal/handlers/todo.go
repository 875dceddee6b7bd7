package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/todoloop/todo-api/internal/constants"
	"github.com/todoloop/todo-api/internal/dto"
	apierrors "github.com/todoloop/todo-api/internal/errors"
	"github.com/todoloop/todo-api/internal/middleware"
	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/services"
)

// TodoHandler coordinates todo HTTP handlers.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// ListTodos returns one page of the caller's todos
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTodosInput{
		UserID:    userID,
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Cursor:    c.Query("cursor"),
		Limit:     constants.DefaultListLimit,
	}

	if v := c.Query("status"); v != "" {
		status := models.TodoStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.Priority(v)
		input.Priority = &priority
	}
	if v := c.Query("category_id"); v != "" {
		input.CategoryID = &v
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		input.Limit = limit
	}

	todos, nextCursor, err := h.todoService.ListTodos(input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoListResponse(todos, nextCursor))
}

// GetStats returns the caller's aggregate todo counters
func (h *TodoHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.todoService.GetStats(userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTodo returns a single todo owned by the caller
func (h *TodoHandler) GetTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todo, err := h.todoService.GetTodo(c.Param("id"), userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// CreateTodo creates a new todo for the caller
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
		CategoryID  *string    `json:"category_id"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTodoInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		input.Priority = &priority
	}

	todo, err := h.todoService.CreateTodo(input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateTodo applies a partial update, optionally replacing the tag set
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTodoRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
		Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
		DueDate     *time.Time `json:"due_date"`
		CategoryID  *string    `json:"category_id"`
		TagIDs      *[]string  `json:"tag_ids"`
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		status := models.TodoStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		input.Priority = &priority
	}

	todo, err := h.todoService.UpdateTodo(c.Param("id"), userID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo removes a todo owned by the caller
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.todoService.DeleteTodo(c.Param("id"), userID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Todo deleted successfully",
	})
}

// ToggleComplete flips a todo between completed and pending
func (h *TodoHandler) ToggleComplete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todo, err := h.todoService.ToggleComplete(c.Param("id"), userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTodoTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidSortField),
		errors.Is(err, services.ErrInvalidSortOrder),
		errors.Is(err, services.ErrInvalidListLimit),
		errors.Is(err, services.ErrInvalidCursor):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
