package repository

import (
	"strings"

	"github.com/todoloop/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(id string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByName finds a tag by its stored (lower-cased) name
func (r *GormTagRepository) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List returns all tags with todo counts, ordered by name
func (r *GormTagRepository) List() ([]TagWithCount, error) {
	var rows []TagWithCount
	err := r.withCounts().
		Order("tags.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Popular returns the top limit tags by todo count descending
func (r *GormTagRepository) Popular(limit int) ([]TagWithCount, error) {
	var rows []TagWithCount
	err := r.withCounts().
		Order("todo_count DESC").
		Order("tags.name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Search matches name substrings case-insensitively, ordered by todo count
// descending then name ascending
func (r *GormTagRepository) Search(query string, limit int) ([]TagWithCount, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []TagWithCount
	err := r.withCounts().
		Where("tags.name LIKE ?", pattern).
		Order("todo_count DESC").
		Order("tags.name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update updates a tag
func (r *GormTagRepository) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// Delete removes a tag and cascades its todo associations
func (r *GormTagRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.TodoTag{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Tag{}).Error
	})
}

func (r *GormTagRepository) withCounts() *gorm.DB {
	return r.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(todo_tags.todo_id) AS todo_count").
		Joins("LEFT JOIN todo_tags ON todo_tags.tag_id = tags.id").
		Group("tags.id")
}
