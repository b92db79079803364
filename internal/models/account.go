package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency is how often wages are credited.
type PayFrequency string

const (
	PayWeekly   PayFrequency = "weekly"
	PayBiweekly PayFrequency = "biweekly"
)

// Valid reports whether f is a known pay frequency.
func (f PayFrequency) Valid() bool {
	return f == PayWeekly || f == PayBiweekly
}

// CycleDays is the length of one pay cycle. Unknown values count as weekly.
func (f PayFrequency) CycleDays() int {
	if f == PayBiweekly {
		return 14
	}
	return 7
}

// Account is a user's single financial profile.
// Money is kept in decimal(14,2) columns to avoid float drift.
type Account struct {
	ID             uint                `gorm:"primaryKey"`
	UserID         uint                `gorm:"uniqueIndex;not null"`
	CurrentBalance decimal.Decimal     `gorm:"type:decimal(14,2);not null"`
	MinBalanceGoal decimal.NullDecimal `gorm:"type:decimal(14,2)"` // null means no floor
	HourlyWage     decimal.NullDecimal `gorm:"type:decimal(14,2)"`
	HoursPerWeek   decimal.NullDecimal `gorm:"type:decimal(8,2)"`
	PayFrequency   PayFrequency        `gorm:"size:10;not null;default:weekly"`
	PayDayOfWeek   *int                // 0 = Monday ... 6 = Sunday
	LastPayCredit  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	RecurringExpenses []RecurringExpense `gorm:"constraint:OnDelete:CASCADE"`
	Spendings         []Spending         `gorm:"constraint:OnDelete:CASCADE"`
	SavingsGoals      []SavingsGoal      `gorm:"constraint:OnDelete:CASCADE"`
	Assets            []Asset            `gorm:"constraint:OnDelete:CASCADE"`
	Investments       []Investment       `gorm:"constraint:OnDelete:CASCADE"`
}

// ActiveGoals returns goals that have not been purchased yet, in stored order.
func (a *Account) ActiveGoals() []*SavingsGoal {
	out := make([]*SavingsGoal, 0, len(a.SavingsGoals))
	for i := range a.SavingsGoals {
		if !a.SavingsGoals[i].Purchased {
			out = append(out, &a.SavingsGoals[i])
		}
	}
	return out
}

// FindGoal returns the goal with the given id, or nil.
func (a *Account) FindGoal(id uint) *SavingsGoal {
	for i := range a.SavingsGoals {
		if a.SavingsGoals[i].ID == id {
			return &a.SavingsGoals[i]
		}
	}
	return nil
}
