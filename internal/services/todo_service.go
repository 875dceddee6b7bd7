package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/todoloop/todo-api/internal/constants"
	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrTodoTitleRequired = errors.New("title is required")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidSortOrder  = errors.New("invalid sort order")
	ErrInvalidListLimit  = errors.New("limit must be between 1 and 100")
	ErrInvalidCursor     = errors.New("invalid cursor")
)

// todoPreloads are the relations expanded on every todo returned to a caller.
var todoPreloads = []string{"Category", "TodoTags.Tag"}

// TodoService handles todo business logic
type TodoService struct {
	todoRepo repository.TodoRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
	}
}

// ListTodosInput represents filters for listing todos
type ListTodosInput struct {
	UserID     string
	Status     *models.TodoStatus
	Priority   *models.Priority
	CategoryID *string
	Search     string
	SortBy     string
	SortOrder  string
	Limit      int
	Cursor     string
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	UserID      string
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	CategoryID  *string
}

// UpdateTodoInput represents input for updating a todo. Nil fields are left
// untouched; TagIDs, when non-nil, is the full desired tag set.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Status      *models.TodoStatus
	Priority    *models.Priority
	DueDate     *time.Time
	CategoryID  *string
	TagIDs      *[]string
}

// TodoStats holds the aggregate counters for one user's todos
type TodoStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"in_progress"`
	Overdue        int64 `json:"overdue"`
	CompletionRate int   `json:"completion_rate"`
}

// ListTodos returns one page of the caller's todos and the cursor for the
// next page, if any.
func (s *TodoService) ListTodos(input ListTodosInput) ([]models.Todo, string, error) {
	if input.SortBy == "" {
		input.SortBy = "created_at"
	}
	if input.SortOrder == "" {
		input.SortOrder = "desc"
	}
	if err := validateListInput(input); err != nil {
		return nil, "", err
	}

	filter := repository.TodoFilter{
		UserID:     input.UserID,
		Status:     input.Status,
		Priority:   input.Priority,
		CategoryID: input.CategoryID,
		Search:     input.Search,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
		Limit:      input.Limit,
		Cursor:     input.Cursor,
	}

	todos, nextCursor, err := s.todoRepo.List(filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the cursor no longer points at one of the caller's todos; it is
			// caller-supplied input, not a named resource
			return nil, "", ErrInvalidCursor
		}
		return nil, "", fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nextCursor, nil
}

// GetTodo returns a single todo owned by the caller, with category and tags
// expanded
func (s *TodoService) GetTodo(id, userID string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(id, userID, todoPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// CreateTodo creates a new todo. Status is always PENDING on creation.
func (s *TodoService) CreateTodo(input CreateTodoInput) (*models.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTodoTitleRequired
	}

	priority := models.PriorityMedium
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	todo := &models.Todo{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Status:      models.TodoStatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		CategoryID:  input.CategoryID,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return s.todoRepo.FindByID(todo.ID, input.UserID, todoPreloads...)
}

// UpdateTodo applies a partial update to a todo owned by the caller.
//
// Completion bookkeeping: entering COMPLETED stamps CompletedAt, an update
// carrying any non-COMPLETED status clears it, and an update without a
// status leaves it untouched.
func (s *TodoService) UpdateTodo(id, userID string, input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTodoTitleRequired
		}
		todo.Title = title
	}
	if input.Description != nil {
		todo.Description = input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.CategoryID != nil {
		todo.CategoryID = input.CategoryID
	}
	if input.Status != nil {
		next := *input.Status
		if !next.IsValid() {
			return nil, ErrInvalidStatus
		}
		if next == models.TodoStatusCompleted {
			if todo.Status != models.TodoStatusCompleted {
				now := time.Now()
				todo.CompletedAt = &now
			}
		} else {
			todo.CompletedAt = nil
		}
		todo.Status = next
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if input.TagIDs != nil {
		if err := s.todoRepo.ReplaceTags(todo.ID, uniqueStrings(*input.TagIDs)); err != nil {
			return nil, fmt.Errorf("failed to update tags: %w", err)
		}
	}

	return s.todoRepo.FindByID(todo.ID, userID, todoPreloads...)
}

// DeleteTodo removes a todo owned by the caller, with its tag associations
func (s *TodoService) DeleteTodo(id, userID string) error {
	if _, err := s.todoRepo.FindByID(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to find todo: %w", err)
	}

	if err := s.todoRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// ToggleComplete flips a todo between COMPLETED and PENDING. A todo that is
// IN_PROGRESS or CANCELLED goes straight to COMPLETED; toggling back always
// lands on PENDING.
func (s *TodoService) ToggleComplete(id, userID string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if todo.Status == models.TodoStatusCompleted {
		todo.Status = models.TodoStatusPending
		todo.CompletedAt = nil
	} else {
		now := time.Now()
		todo.Status = models.TodoStatusCompleted
		todo.CompletedAt = &now
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	return s.todoRepo.FindByID(todo.ID, userID, todoPreloads...)
}

// GetStats computes the caller's aggregate counters. The five counts run as
// independent queries against the same store.
func (s *TodoService) GetStats(userID string) (*TodoStats, error) {
	total, err := s.todoRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	completed, err := s.todoRepo.CountByUserAndStatus(userID, models.TodoStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed todos: %w", err)
	}
	pending, err := s.todoRepo.CountByUserAndStatus(userID, models.TodoStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending todos: %w", err)
	}
	inProgress, err := s.todoRepo.CountByUserAndStatus(userID, models.TodoStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to count in-progress todos: %w", err)
	}
	overdue, err := s.todoRepo.CountOverdue(userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue todos: %w", err)
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &TodoStats{
		Total:          total,
		Completed:      completed,
		Pending:        pending,
		InProgress:     inProgress,
		Overdue:        overdue,
		CompletionRate: rate,
	}, nil
}

func validateListInput(input ListTodosInput) error {
	if input.Limit < constants.MinListLimit || input.Limit > constants.MaxListLimit {
		return ErrInvalidListLimit
	}
	switch input.SortBy {
	case "created_at", "due_date", "priority", "title":
	default:
		return ErrInvalidSortField
	}
	switch input.SortOrder {
	case "asc", "desc":
	default:
		return ErrInvalidSortOrder
	}
	if input.Status != nil && !input.Status.IsValid() {
		return ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// uniqueStrings removes duplicate values while preserving order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
