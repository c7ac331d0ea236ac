package database

import (
	"fmt"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the advisor tables.
func Migrate(db *gorm.DB) error {
	tables := []any{
		&models.ResponseCache{},
		&models.QueryLog{},
		&models.Feedback{},
		&models.AdminUser{},
		&models.APIConfig{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate table %T: %w", table, err)
		}
	}

	return nil
}
