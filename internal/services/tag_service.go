package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/todoloop/todo-api/internal/constants"
	"github.com/todoloop/todo-api/internal/models"
	"github.com/todoloop/todo-api/internal/repository"
	"github.com/todoloop/todo-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagNameRequired  = errors.New("name is required")
	ErrTagNameTaken     = errors.New("tag with this name already exists")
	ErrSearchQueryEmpty = errors.New("search query is required")
)

// TagService handles tag business logic. Tags are shared across users; any
// authenticated caller may create or modify them.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{
		tagRepo: tagRepo,
	}
}

// CreateTagInput represents input for creating a tag
type CreateTagInput struct {
	Name  string
	Color string
}

// UpdateTagInput represents input for updating a tag
type UpdateTagInput struct {
	Name  *string
	Color *string
}

// ListTags returns all tags with todo counts, ordered by name
func (s *TagService) ListTags() ([]repository.TagWithCount, error) {
	tags, err := s.tagRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// PopularTags returns the most-used tags. limit <= 0 falls back to the
// default of 10.
func (s *TagService) PopularTags(limit int) ([]repository.TagWithCount, error) {
	if limit <= 0 {
		limit = constants.DefaultPopularTagLimit
	}

	tags, err := s.tagRepo.Popular(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag, or returns the existing one when the lower-cased
// name is already taken. Creation is idempotent.
func (s *TagService) CreateTag(input CreateTagInput) (*models.Tag, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, ErrTagNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultTagColor
	}
	if !utils.IsHexColor(color) {
		return nil, ErrInvalidColor
	}

	existing, err := s.tagRepo.FindByName(name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check tag name: %w", err)
	}

	tag := &models.Tag{
		Name:  name,
		Color: color,
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

// UpdateTag applies a partial update. Renaming to a name held by a different
// tag is rejected.
func (s *TagService) UpdateTag(id string, input UpdateTagInput) (*models.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	if input.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*input.Name))
		if name == "" {
			return nil, ErrTagNameRequired
		}
		if name != tag.Name {
			existing, err := s.tagRepo.FindByName(name)
			if err == nil && existing.ID != tag.ID {
				return nil, ErrTagNameTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check tag name: %w", err)
			}
		}
		tag.Name = name
	}
	if input.Color != nil {
		if !utils.IsHexColor(*input.Color) {
			return nil, ErrInvalidColor
		}
		tag.Color = *input.Color
	}

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return tag, nil
}

// DeleteTag removes a tag and all its todo associations
func (s *TagService) DeleteTag(id string) error {
	if _, err := s.tagRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}

	if err := s.tagRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	return nil
}

// SearchTags matches tag names case-insensitively, most-used first
func (s *TagService) SearchTags(query string) ([]repository.TagWithCount, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrSearchQueryEmpty
	}

	tags, err := s.tagRepo.Search(query, constants.TagSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}
	return tags, nil
}
