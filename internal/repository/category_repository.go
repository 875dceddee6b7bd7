package repository

import (
	"github.com/todoloop/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// FindByID finds a category by ID scoped to its owner
func (r *GormCategoryRepository) FindByID(id, userID string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDWithCount finds an owner-scoped category together with its todo count
func (r *GormCategoryRepository) FindByIDWithCount(id, userID string) (*CategoryWithCount, error) {
	var row CategoryWithCount
	err := r.withCounts().
		Where("categories.id = ? AND categories.user_id = ?", id, userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByName finds a category by exact name for one owner
func (r *GormCategoryRepository) FindByName(userID, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns the owner's categories with todo counts, ordered by name
func (r *GormCategoryRepository) List(userID string) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.withCounts().
		Where("categories.user_id = ?", userID).
		Order("categories.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update updates a category
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete nulls the category reference on any todos first, then removes the
// category. Todos themselves survive.
func (r *GormCategoryRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Todo{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Category{}).Error
	})
}

func (r *GormCategoryRepository) withCounts() *gorm.DB {
	return r.db.Model(&models.Category{}).
		Select("categories.*, COUNT(todos.id) AS todo_count").
		Joins("LEFT JOIN todos ON todos.category_id = categories.id").
		Group("categories.id")
}
