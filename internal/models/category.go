package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a user-scoped grouping for todos. Name uniqueness per user is
// enforced by a service-level pre-check, not a database constraint.
type Category struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"`
	Icon      *string   `gorm:"type:varchar(50)" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Todos []Todo `gorm:"foreignKey:CategoryID" json:"todos,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
