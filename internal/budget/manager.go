// Package budget holds the ledger rules: derived metrics, payday crediting,
// recurring posting decisions and deposit planning. Everything here works on
// an already loaded *models.Account and never touches the database or the
// wall clock; "today" is always passed in.
package budget

import (
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	four    = decimal.NewFromInt(4)
	seven   = decimal.NewFromInt(7)
)

// neutralHealthScore is reported while no income is configured.
const neutralHealthScore = 50

// Manager computes metrics for one account.
type Manager struct {
	acc *models.Account
}

func NewManager(acc *models.Account) *Manager {
	return &Manager{acc: acc}
}

// Account returns the account the manager operates on.
func (m *Manager) Account() *models.Account { return m.acc }

// WeeklyIncome is hourly wage times hours per week. Missing data means zero.
func (m *Manager) WeeklyIncome() decimal.Decimal {
	a := m.acc
	if !a.HourlyWage.Valid || !a.HoursPerWeek.Valid {
		return decimal.Zero
	}
	return a.HourlyWage.Decimal.Mul(a.HoursPerWeek.Decimal)
}

// WeeklyExpenses normalises recurring expenses to a week:
// daily x 7, weekly as-is, monthly / 4.
func (m *Manager) WeeklyExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.acc.RecurringExpenses {
		total = total.Add(WeeklyAmount(e))
	}
	return total
}

// WeeklyAmount is one expense's weekly share.
func WeeklyAmount(e models.RecurringExpense) decimal.Decimal {
	switch e.Frequency {
	case models.FrequencyDaily:
		return e.Amount.Mul(seven)
	case models.FrequencyWeekly:
		return e.Amount
	case models.FrequencyMonthly:
		return e.Amount.Div(four)
	}
	return decimal.Zero
}

// WeeklySpendable is income minus expenses, floored at zero.
func (m *Manager) WeeklySpendable() decimal.Decimal {
	return decimal.Max(decimal.Zero, m.WeeklyIncome().Sub(m.WeeklyExpenses()))
}

// PaydayAmount is what one payday credits: a week of income, two for biweekly pay.
func (m *Manager) PaydayAmount() decimal.Decimal {
	amount := m.WeeklyIncome()
	if m.acc.PayFrequency == models.PayBiweekly {
		amount = amount.Mul(decimal.NewFromInt(2))
	}
	return amount.Round(2)
}

// PaydayDue reports whether today is a payday that has not been credited yet.
// A payday needs the configured weekday and a full cycle since the last credit.
func (m *Manager) PaydayDue(today time.Time) bool {
	a := m.acc
	if a.PayDayOfWeek == nil || clock.WeekdayIndex(today) != *a.PayDayOfWeek {
		return false
	}
	if a.LastPayCredit == nil {
		return true
	}
	return clock.DaysBetween(*a.LastPayCredit, today) >= a.PayFrequency.CycleDays()
}

// CreditPaydayIfDue adds the payday amount to the balance and stamps
// LastPayCredit. It returns false and leaves the account alone otherwise,
// so repeated calls on the same day credit once.
func (m *Manager) CreditPaydayIfDue(today time.Time) bool {
	if !m.PaydayDue(today) {
		return false
	}
	day := clock.Day(today)
	m.acc.CurrentBalance = m.acc.CurrentBalance.Add(m.PaydayAmount())
	m.acc.LastPayCredit = &day
	return true
}

// SafeAmountToSave is the balance above the minimum balance goal.
func (m *Manager) SafeAmountToSave() decimal.Decimal {
	floor := decimal.Zero
	if m.acc.MinBalanceGoal.Valid {
		floor = m.acc.MinBalanceGoal.Decimal
	}
	return decimal.Max(decimal.Zero, m.acc.CurrentBalance.Sub(floor))
}

// TotalSpending sums every spending row, lifetime.
func (m *Manager) TotalSpending() decimal.Decimal {
	total := decimal.Zero
	for _, s := range m.acc.Spendings {
		total = total.Add(s.Amount)
	}
	return total
}

// TotalSaved sums deposits across all goals.
func (m *Manager) TotalSaved() decimal.Decimal {
	total := decimal.Zero
	for i := range m.acc.SavingsGoals {
		total = total.Add(m.acc.SavingsGoals[i].CurrentAmount())
	}
	return total
}

// NetWorth = (balance + assets) + investments - spendings.
func (m *Manager) NetWorth() decimal.Decimal {
	total := m.acc.CurrentBalance
	for _, a := range m.acc.Assets {
		total = total.Add(a.Value)
	}
	for _, inv := range m.acc.Investments {
		total = total.Add(inv.Amount)
	}
	return total.Sub(m.TotalSpending())
}

// HealthScore blends savings and spending against monthly income into 0..100.
// With no income configured the score is a neutral 50.
func (m *Manager) HealthScore() int {
	monthly := m.WeeklyIncome().Mul(four)
	if !monthly.IsPositive() {
		return neutralHealthScore
	}
	score := decimal.NewFromInt(50).
		Add(decimal.NewFromInt(40).Mul(m.TotalSaved()).Div(monthly)).
		Sub(decimal.NewFromInt(30).Mul(m.TotalSpending()).Div(monthly))
	score = decimal.Min(hundred, decimal.Max(decimal.Zero, score))
	return int(score.IntPart())
}

// BalanceStatus describes the balance relative to the minimum balance goal.
func (m *Manager) BalanceStatus() string {
	a := m.acc
	if !a.MinBalanceGoal.Valid {
		return "No minimum balance goal set"
	}
	diff := a.CurrentBalance.Sub(a.MinBalanceGoal.Decimal)
	if diff.IsNegative() {
		return "Below minimum balance goal by $" + diff.Neg().StringFixed(2)
	}
	return "Above minimum balance goal by $" + diff.StringFixed(2)
}
