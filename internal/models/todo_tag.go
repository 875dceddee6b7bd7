package models

import "time"

// TodoTag links a todo to a tag. Rows are removed when either parent is
// deleted.
type TodoTag struct {
	TodoID    string    `gorm:"type:varchar(36);primarykey" json:"todo_id"`
	TagID     string    `gorm:"type:varchar(36);primarykey;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Todo Todo `gorm:"foreignKey:TodoID" json:"todo,omitempty"`
	Tag  Tag  `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
