package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "PENDING"
	TodoStatusInProgress TodoStatus = "IN_PROGRESS"
	TodoStatusCompleted  TodoStatus = "COMPLETED"
	TodoStatusCancelled  TodoStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known todo statuses.
func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, TodoStatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities from LOW (0) to URGENT (3) for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return 4
}

// Todo is a single task record owned by one user. CompletedAt is non-nil
// exactly when Status is COMPLETED.
type Todo struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      TodoStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority    Priority   `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	CategoryID  *string    `gorm:"type:varchar(36);index" json:"category_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	TodoTags []TodoTag `gorm:"foreignKey:TodoID" json:"todo_tags,omitempty"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
