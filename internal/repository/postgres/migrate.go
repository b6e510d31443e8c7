package postgres

import (
	"fmt"

	"github.com/dom/dietlog/internal/domain"
	"gorm.io/gorm"
)

// Migrate creates the users and meals tables if they do not exist yet.
// meals references users, so users is created first.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range []interface{}{&domain.User{}, &domain.Meal{}} {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

// Rollback drops both tables in reverse creation order.
func Rollback(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range []interface{}{&domain.Meal{}, &domain.User{}} {
		if err := m.DropTable(model); err != nil {
			return fmt.Errorf("drop table %T: %w", model, err)
		}
	}
	return nil
}
