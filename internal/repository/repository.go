package repository

import (
	"time"

	"github.com/todoloop/todo-api/internal/models"
)

// TodoFilter holds filtering, sorting, and cursor options for listing todos.
// UserID is mandatory; every list query is scoped to one owner.
type TodoFilter struct {
	UserID     string
	Status     *models.TodoStatus
	Priority   *models.Priority
	CategoryID *string
	Search     string
	SortBy     string // created_at, due_date, priority, title
	SortOrder  string // asc, desc
	Limit      int
	Cursor     string // id of the first row of the requested page
}

// TodoRepository defines the interface for todo data access. Read and write
// operations that take a userID treat a row owned by another user the same
// as a missing row.
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByID finds a todo owned by userID with optional preloading
	FindByID(id, userID string, preload ...string) (*models.Todo, error)

	// List retrieves todos with filtering and cursor pagination. The second
	// return value is the id of the first row of the next page, or "" when
	// the result set is exhausted.
	List(filter TodoFilter) ([]models.Todo, string, error)

	// Update persists changes to a todo
	Update(todo *models.Todo) error

	// Delete removes a todo and its tag associations
	Delete(id string) error

	// ReplaceTags reconciles the todo's tag set to exactly tagIDs within a
	// single transaction. Associations already present stay untouched.
	ReplaceTags(todoID string, tagIDs []string) error

	// CountByUser counts all todos owned by userID
	CountByUser(userID string) (int64, error)

	// CountByUserAndStatus counts todos owned by userID in the given status
	CountByUserAndStatus(userID string, status models.TodoStatus) (int64, error)

	// CountOverdue counts todos due strictly before now and not completed
	CountOverdue(userID string, now time.Time) (int64, error)
}

// CategoryWithCount pairs a category with the number of todos referencing it.
type CategoryWithCount struct {
	models.Category
	TodoCount int64 `json:"todo_count"`
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a category owned by userID
	FindByID(id, userID string) (*models.Category, error)

	// FindByIDWithCount finds a category owned by userID with its todo count
	FindByIDWithCount(id, userID string) (*CategoryWithCount, error)

	// FindByName finds a category by exact name for one owner
	FindByName(userID, name string) (*models.Category, error)

	// List returns the owner's categories with todo counts, name ascending
	List(userID string) ([]CategoryWithCount, error)

	// Update persists changes to a category
	Update(category *models.Category) error

	// Delete nulls the category reference on any todos, then removes the
	// category, in one transaction. Todos are never deleted.
	Delete(id string) error
}

// TagWithCount pairs a tag with the number of todos it is attached to.
type TagWithCount struct {
	models.Tag
	TodoCount int64 `json:"todo_count"`
}

// TagRepository defines the interface for tag data access. Tags are global;
// no operation is owner-scoped.
type TagRepository interface {
	// Create creates a new tag
	Create(tag *models.Tag) error

	// FindByID finds a tag by ID
	FindByID(id string) (*models.Tag, error)

	// FindByName finds a tag by its (lower-cased) name
	FindByName(name string) (*models.Tag, error)

	// List returns all tags with todo counts, name ascending
	List() ([]TagWithCount, error)

	// Popular returns the top limit tags by todo count descending
	Popular(limit int) ([]TagWithCount, error)

	// Search matches name substrings case-insensitively, ordered by todo
	// count descending then name ascending, capped at limit
	Search(query string, limit int) ([]TagWithCount, error)

	// Update persists changes to a tag
	Update(tag *models.Tag) error

	// Delete removes a tag and all its todo associations
	Delete(id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
