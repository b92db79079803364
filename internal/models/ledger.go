package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseFrequency is the cadence of a recurring expense.
type ExpenseFrequency string

const (
	FrequencyDaily   ExpenseFrequency = "daily"
	FrequencyWeekly  ExpenseFrequency = "weekly"
	FrequencyMonthly ExpenseFrequency = "monthly"
)

// Valid reports whether f is a known expense frequency.
func (f ExpenseFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurringExpense is a recurring obligation such as rent or a subscription.
type RecurringExpense struct {
	ID        uint             `gorm:"primaryKey"`
	AccountID uint             `gorm:"index;not null"`
	Name      string           `gorm:"size:100;not null"`
	Amount    decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	Frequency ExpenseFrequency `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpendingKind tells manual purchases apart from generated rows.
type SpendingKind string

const (
	SpendingManual    SpendingKind = "manual"
	SpendingRecurring SpendingKind = "recurring"
	SpendingPurchase  SpendingKind = "purchase"
)

// Spending is a single outgoing payment.
//
// Recurring postings carry the expense id and a period key; the pair is unique,
// so one expense can post at most once per period. Manual rows leave both empty.
type Spending struct {
	ID                 uint            `gorm:"primaryKey"`
	AccountID          uint            `gorm:"index;not null"`
	Item               string          `gorm:"size:100;not null"`
	Amount             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Date               time.Time       `gorm:"index;not null"`
	Kind               SpendingKind    `gorm:"size:16;not null;default:manual"`
	RecurringExpenseID *uint           `gorm:"uniqueIndex:idx_spending_posting"`
	PeriodKey          *string         `gorm:"size:16;uniqueIndex:idx_spending_posting"`
	SavingsGoalID      *uint           `gorm:"index"`
	CreatedAt          time.Time
}

// SavingsGoal is an item the user is saving up for.
type SavingsGoal struct {
	ID           uint            `gorm:"primaryKey"`
	AccountID    uint            `gorm:"index;not null"`
	Item         string          `gorm:"size:100;not null"`
	Cost         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Purchased    bool            `gorm:"not null;default:false"`
	PurchaseDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Deposits []SavingsDeposit `gorm:"constraint:OnDelete:CASCADE"`
}

// CurrentAmount is the sum of all deposits.
func (g *SavingsGoal) CurrentAmount() decimal.Decimal {
	total := decimal.Zero
	for _, d := range g.Deposits {
		total = total.Add(d.Amount)
	}
	return total
}

// IsFunded reports whether deposits cover the cost.
func (g *SavingsGoal) IsFunded() bool {
	return g.CurrentAmount().GreaterThanOrEqual(g.Cost)
}

// Remaining is the amount still needed, never negative.
func (g *SavingsGoal) Remaining() decimal.Decimal {
	r := g.Cost.Sub(g.CurrentAmount())
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ProgressPercent is capped at 100 and is 0 for a zero cost.
func (g *SavingsGoal) ProgressPercent() decimal.Decimal {
	if !g.Cost.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount().Div(g.Cost).Mul(decimal.NewFromInt(100))
	return decimal.Min(p, decimal.NewFromInt(100))
}

// SavingsDeposit is one contribution towards a goal.
type SavingsDeposit struct {
	ID            uint            `gorm:"primaryKey"`
	SavingsGoalID uint            `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Date          time.Time       `gorm:"not null"`
	CreatedAt     time.Time
}

// Asset is something of value counted in net worth.
type Asset struct {
	ID        uint            `gorm:"primaryKey"`
	AccountID uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:100;not null"`
	Value     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Investment is a holding counted in net worth.
type Investment struct {
	ID        uint            `gorm:"primaryKey"`
	AccountID uint            `gorm:"index;not null"`
	StockName string          `gorm:"size:50;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
