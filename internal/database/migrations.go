package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/todoloop/todo-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	logrus.Info("Running database migrations")
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Todo{},
		&models.TodoTag{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := addIndexes(db); err != nil {
		return err
	}

	logrus.Info("Database migrations completed")
	return nil
}

// addIndexes creates the composite indexes AutoMigrate cannot express through
// struct tags. Single-column indexes live on the model definitions.
func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// List queries always scope by user before filtering
		{&models.Todo{}, "todos", "idx_todos_user_status", "user_id, status"},
		{&models.Todo{}, "todos", "idx_todos_user_due_date", "user_id, due_date"},
		{&models.Category{}, "categories", "idx_categories_user_name", "user_id, name"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		logrus.WithField("index", idx.name).Debug("Created index")
	}

	return nil
}
