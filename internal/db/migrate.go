package db

import (
	"fmt"

	"gorm.io/gorm"

	"propertyhub/internal/model"
)

// Migrate creates or updates the relational schema, including the
// idx_contact_buyer_property unique index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Contact{},
		&model.SavedProperty{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Used when RESET_DB=true.
func Reset(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&model.SavedProperty{},
		&model.Contact{},
		&model.Property{},
		&model.User{},
	)
}
