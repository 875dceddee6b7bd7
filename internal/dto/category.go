package dto

import (
	"time"

	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/repository"
)

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryWithCountDTO adds the todo count to a category response
type CategoryWithCountDTO struct {
	CategoryDTO
	TodoCount int64 `json:"todo_count"`
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		UserID:    category.UserID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ToCategoryWithCountDTO converts a counted repository row to its DTO
func ToCategoryWithCountDTO(row repository.CategoryWithCount) CategoryWithCountDTO {
	return CategoryWithCountDTO{
		CategoryDTO: ToCategoryDTO(row.Category),
		TodoCount:   row.TodoCount,
	}
}

// ToCategoryWithCountDTOs converts a slice of counted rows
func ToCategoryWithCountDTOs(rows []repository.CategoryWithCount) []CategoryWithCountDTO {
	dtos := make([]CategoryWithCountDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ToCategoryWithCountDTO(row)
	}
	return dtos
}
