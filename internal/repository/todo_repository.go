package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/todoloop/todo-api/internal/models"
	"gorm.io/gorm"
)

// priorityRank orders the priority enum LOW..URGENT for sorting; the string
// values do not sort meaningfully on their own.
const priorityRank = "CASE todos.priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 WHEN 'URGENT' THEN 3 ELSE 4 END"

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByID finds a todo by ID scoped to its owner, with optional preloading
func (r *GormTodoRepository) FindByID(id, userID string, preload ...string) (*models.Todo, error) {
	var todo models.Todo
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
		return nil, err
	}

	return &todo, nil
}

// List retrieves todos with filtering and forward-only cursor pagination.
// limit+1 rows are fetched; when more than limit rows come back, the extra
// row is trimmed and its id becomes the cursor for the next page.
func (r *GormTodoRepository) List(filter TodoFilter) ([]models.Todo, string, error) {
	query := r.db.Model(&models.Todo{}).Where("todos.user_id = ?", filter.UserID)

	if filter.Status != nil {
		query = query.Where("todos.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("todos.priority = ?", *filter.Priority)
	}
	if filter.CategoryID != nil {
		query = query.Where("todos.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(todos.title) LIKE ? OR LOWER(todos.description) LIKE ?)", pattern, pattern)
	}

	sortExpr, desc := sortExpression(filter.SortBy, filter.SortOrder)

	if filter.Cursor != "" {
		var pivot models.Todo
		if err := r.db.Where("id = ? AND user_id = ?", filter.Cursor, filter.UserID).
			First(&pivot).Error; err != nil {
			return nil, "", err
		}
		query = applyCursor(query, filter.SortBy, sortExpr, desc, &pivot)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	if filter.SortBy == "due_date" {
		// NULL due dates must sort first ascending and last descending on
		// every driver; postgres natively puts NULLs at the opposite end, so
		// the null rank is ordered explicitly instead of relying on engine
		// defaults.
		nullRank := "DESC"
		if desc {
			nullRank = "ASC"
		}
		query = query.Order(fmt.Sprintf("(todos.due_date IS NULL) %s, todos.due_date %s, todos.id %s", nullRank, dir, dir))
	} else {
		query = query.Order(fmt.Sprintf("%s %s, todos.id %s", sortExpr, dir, dir))
	}

	var todos []models.Todo
	err := query.
		Limit(filter.Limit + 1).
		Preload("Category").
		Preload("TodoTags.Tag").
		Find(&todos).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(todos) > filter.Limit {
		nextCursor = todos[filter.Limit].ID
		todos = todos[:filter.Limit]
	}

	return todos, nextCursor, nil
}

// sortExpression maps a sort field to its SQL expression and resolves the
// direction. Unknown fields fall back to created_at descending; the service
// validates user input before it gets here.
func sortExpression(sortBy, sortOrder string) (string, bool) {
	var expr string
	switch sortBy {
	case "due_date":
		expr = "todos.due_date"
	case "priority":
		expr = priorityRank
	case "title":
		expr = "todos.title"
	default:
		expr = "todos.created_at"
	}
	return expr, sortOrder != "asc"
}

// applyCursor restricts the query to rows at or after the pivot row in sort
// order. The cursor row itself is included; it is the first row of the page.
func applyCursor(query *gorm.DB, sortBy, sortExpr string, desc bool, pivot *models.Todo) *gorm.DB {
	var pivotValue interface{}
	switch sortBy {
	case "due_date":
		if pivot.DueDate == nil {
			// NULL due dates sort first ascending and last descending
			if desc {
				return query.Where("todos.due_date IS NULL AND todos.id <= ?", pivot.ID)
			}
			return query.Where("(todos.due_date IS NOT NULL OR todos.id >= ?)", pivot.ID)
		}
		pivotValue = *pivot.DueDate
	case "priority":
		pivotValue = pivot.Priority.Rank()
	case "title":
		pivotValue = pivot.Title
	default:
		pivotValue = pivot.CreatedAt
	}

	if desc {
		cond := fmt.Sprintf("(%s < ? OR (%s = ? AND todos.id <= ?))", sortExpr, sortExpr)
		if sortBy == "due_date" {
			// rows without a due date still lie ahead in descending order
			cond = fmt.Sprintf("(%s OR todos.due_date IS NULL)", cond)
		}
		return query.Where(cond, pivotValue, pivotValue, pivot.ID)
	}
	return query.Where(
		fmt.Sprintf("(%s > ? OR (%s = ? AND todos.id >= ?))", sortExpr, sortExpr),
		pivotValue, pivotValue, pivot.ID,
	)
}

// Update updates a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// Delete removes a todo together with its tag associations
func (r *GormTodoRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("todo_id = ?", id).Delete(&models.TodoTag{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Todo{}).Error
	})
}

// ReplaceTags reconciles the todo's tag associations to exactly tagIDs.
// Associations leaving the set are deleted and missing ones created;
// surviving rows are not rewritten.
func (r *GormTodoRepository) ReplaceTags(todoID string, tagIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(tagIDs) == 0 {
			return tx.Where("todo_id = ?", todoID).Delete(&models.TodoTag{}).Error
		}

		if err := tx.Where("todo_id = ? AND tag_id NOT IN ?", todoID, tagIDs).
			Delete(&models.TodoTag{}).Error; err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&models.TodoTag{}).
			Where("todo_id = ?", todoID).
			Pluck("tag_id", &existing).Error; err != nil {
			return err
		}

		present := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			present[id] = struct{}{}
		}

		var links []models.TodoTag
		for _, tagID := range tagIDs {
			if _, ok := present[tagID]; ok {
				continue
			}
			links = append(links, models.TodoTag{TodoID: todoID, TagID: tagID})
		}

		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

// CountByUser counts all todos owned by userID
func (r *GormTodoRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Todo{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByUserAndStatus counts the owner's todos in one status
func (r *GormTodoRepository) CountByUserAndStatus(userID string, status models.TodoStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Todo{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

// CountOverdue counts todos due strictly before now that are not completed
func (r *GormTodoRepository) CountOverdue(userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Todo{}).
		Where("user_id = ? AND due_date < ? AND status <> ?", userID, now, models.TodoStatusCompleted).
		Count(&count).Error
	return count, err
}
