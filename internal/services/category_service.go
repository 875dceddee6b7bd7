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
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("name is required")
	ErrCategoryNameTaken    = errors.New("category with this name already exists")
	ErrInvalidColor         = errors.New("color must be a #RRGGBB value")
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	UserID string
	Name   string
	Color  string
	Icon   *string
}

// UpdateCategoryInput represents input for updating a category
type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// ListCategories returns the caller's categories with todo counts, ordered
// by name
func (s *CategoryService) ListCategories(userID string) ([]repository.CategoryWithCount, error) {
	categories, err := s.categoryRepo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns a single category owned by the caller
func (s *CategoryService) GetCategory(id, userID string) (*repository.CategoryWithCount, error) {
	category, err := s.categoryRepo.FindByIDWithCount(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// CreateCategory creates a category after re-checking name uniqueness for
// the owner. Name comparison is case-sensitive.
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultCategoryColor
	}
	if !utils.IsHexColor(color) {
		return nil, ErrInvalidColor
	}

	if err := s.ensureNameAvailable(input.UserID, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: input.UserID,
		Name:   name,
		Color:  color,
		Icon:   input.Icon,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory applies a partial update to a category owned by the caller
func (s *CategoryService) UpdateCategory(id, userID string, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		if name != category.Name {
			if err := s.ensureNameAvailable(userID, name, category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if input.Color != nil {
		if !utils.IsHexColor(*input.Color) {
			return nil, ErrInvalidColor
		}
		category.Color = *input.Color
	}
	if input.Icon != nil {
		category.Icon = input.Icon
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category owned by the caller. Referencing todos
// keep living with a null category.
func (s *CategoryService) DeleteCategory(id, userID string) error {
	if _, err := s.categoryRepo.FindByID(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// ensureNameAvailable re-checks per-user name uniqueness before a write.
// excludeID skips the category being renamed.
func (s *CategoryService) ensureNameAvailable(userID, name, excludeID string) error {
	existing, err := s.categoryRepo.FindByName(userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing.ID == excludeID {
		return nil
	}
	return ErrCategoryNameTaken
}
