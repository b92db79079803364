package database

import (
	"path/filepath"
	"testing"

	"budget-ledger/internal/config"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

func TestInitAndMigrate(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "test.db")})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	user := models.User{Email: "a@example.com", Name: "A", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	acc := models.Account{UserID: user.ID, CurrentBalance: decimal.RequireFromString("12.34"), PayFrequency: models.PayWeekly}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}

	// one account per user
	dup := models.Account{UserID: user.ID, PayFrequency: models.PayWeekly}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("second account for the same user should violate the unique index")
	}

	var loaded models.Account
	if err := db.First(&loaded, acc.ID).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	if !loaded.CurrentBalance.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("balance = %s, want 12.34", loaded.CurrentBalance)
	}
	if loaded.MinBalanceGoal.Valid {
		t.Error("MinBalanceGoal should load as null")
	}
}

func TestInit_UnknownDriver(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("Init() error = nil, want error")
	}
}
