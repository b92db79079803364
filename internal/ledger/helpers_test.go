package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/config"
	"budget-ledger/internal/database"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	monJan1  = clock.Date(2024, time.January, 1) // Monday
	wedJan3  = clock.Date(2024, time.January, 3)
	monJan8  = clock.Date(2024, time.January, 8)
	wedJan31 = clock.Date(2024, time.January, 31)  // last day of January
	thuFeb29 = clock.Date(2024, time.February, 29) // last day of February
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func intPtr(v int) *int { return &v }

// setupService opens a fresh SQLite database and creates one user.
func setupService(t *testing.T) (*Service, *gorm.DB, uint) {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "ledger_test.db"),
	})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	user := models.User{Email: "saver@example.com", Name: "Saver", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	svc := NewService(db, clock.Fixed{T: monJan1}, config.BudgetConfig{})
	return svc, db, user.ID
}

// seed replaces the account profile through SyncFinancials, as a freshly
// loaded form would.
func seed(t *testing.T, svc *Service, userID uint, f Financials) {
	t.Helper()
	cur, err := svc.Financials(userID)
	if err != nil {
		t.Fatalf("Financials() error = %v", err)
	}
	f.LastPayCredit = cur.LastPayCredit
	if err := svc.SyncFinancials(userID, &f, monJan1); err != nil {
		t.Fatalf("SyncFinancials() error = %v", err)
	}
}

func mustAccount(t *testing.T, svc *Service, userID uint) *models.Account {
	t.Helper()
	acc, err := svc.view(userID)
	if err != nil {
		t.Fatalf("load account: %v", err)
	}
	return acc
}

func goalID(t *testing.T, svc *Service, userID uint, item string) uint {
	t.Helper()
	for _, g := range mustAccount(t, svc, userID).SavingsGoals {
		if g.Item == item {
			return g.ID
		}
	}
	t.Fatalf("goal %q not found", item)
	return 0
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func assertBalance(t *testing.T, svc *Service, userID uint, want string) {
	t.Helper()
	if got := mustAccount(t, svc, userID).CurrentBalance; !got.Equal(dec(want)) {
		t.Errorf("balance = %s, want %s", got, want)
	}
}
