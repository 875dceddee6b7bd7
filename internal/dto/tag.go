package dto

import (
	"time"

	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/repository"
)

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagWithCountDTO adds the todo count to a tag response
type TagWithCountDTO struct {
	TagDTO
	TodoCount int64 `json:"todo_count"`
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

// ToTagWithCountDTO converts a counted repository row to its DTO
func ToTagWithCountDTO(row repository.TagWithCount) TagWithCountDTO {
	return TagWithCountDTO{
		TagDTO:    ToTagDTO(row.Tag),
		TodoCount: row.TodoCount,
	}
}

// ToTagWithCountDTOs converts a slice of counted rows
func ToTagWithCountDTOs(rows []repository.TagWithCount) []TagWithCountDTO {
	dtos := make([]TagWithCountDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ToTagWithCountDTO(row)
	}
	return dtos
}
