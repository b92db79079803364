package budget

import (
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDec(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

// salaried returns an account earning 20/h for 40h a week (800 weekly).
func salaried() *models.Account {
	return &models.Account{
		ID:             1,
		UserID:         1,
		CurrentBalance: decimal.Zero,
		HourlyWage:     nullDec("20"),
		HoursPerWeek:   nullDec("40"),
		PayFrequency:   models.PayWeekly,
	}
}

func goal(id uint, item, cost string, deposits ...string) models.SavingsGoal {
	g := models.SavingsGoal{ID: id, AccountID: 1, Item: item, Cost: dec(cost)}
	for i, amt := range deposits {
		g.Deposits = append(g.Deposits, models.SavingsDeposit{
			ID:            uint(i + 1),
			SavingsGoalID: id,
			Amount:        dec(amt),
			Date:          clock.Date(2025, 5, 1),
		})
	}
	return g
}

func spending(id uint, amount string, day time.Time) models.Spending {
	return models.Spending{ID: id, AccountID: 1, Item: "item", Amount: dec(amount), Date: day, Kind: models.SpendingManual}
}
