package database

import (
	"fmt"

	"budget-ledger/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
// Parents come before children so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Account{},
		&models.RecurringExpense{},
		&models.Spending{},
		&models.SavingsGoal{},
		&models.SavingsDeposit{},
		&models.Asset{},
		&models.Investment{},
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
