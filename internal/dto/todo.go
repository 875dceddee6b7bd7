package dto

import (
	"time"

	"github.com/todoloop/todo-api/internal/models"
)

// TodoDTO represents a todo in API responses. Tags are expanded to full tag
// objects, not join-row ids.
type TodoDTO struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TodoStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	DueDate     *time.Time        `json:"due_date"`
	CategoryID  *string           `json:"category_id"`
	CompletedAt *time.Time        `json:"completed_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Category    *CategoryDTO      `json:"category"`
	Tags        []TagDTO          `json:"tags"`
}

// TodoListResponse represents one page of todos with the continuation cursor
type TodoListResponse struct {
	Todos      []TodoDTO `json:"todos"`
	NextCursor *string   `json:"next_cursor"`
}

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	d := TodoDTO{
		ID:          todo.ID,
		UserID:      todo.UserID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		CategoryID:  todo.CategoryID,
		CompletedAt: todo.CompletedAt,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
		Tags:        make([]TagDTO, 0, len(todo.TodoTags)),
	}

	if todo.Category != nil {
		category := ToCategoryDTO(*todo.Category)
		d.Category = &category
	}

	for _, tt := range todo.TodoTags {
		d.Tags = append(d.Tags, ToTagDTO(tt.Tag))
	}

	return d
}

// ToTodoListResponse converts one page of todos with its cursor
func ToTodoListResponse(todos []models.Todo, nextCursor string) TodoListResponse {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}

	resp := TodoListResponse{Todos: items}
	if nextCursor != "" {
		resp.NextCursor = &nextCursor
	}
	return resp
}
