package budget

import (
	"sort"
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultSummaryWeeks is the number of windows shown on the dashboard.
const DefaultSummaryWeeks = 4

// upcomingDays is how far ahead the dashboard previews recurring charges.
const upcomingDays = 7

type AssetLine struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type InvestmentLine struct {
	ID        uint            `json:"id"`
	StockName string          `json:"stock_name"`
	Amount    decimal.Decimal `json:"amount"`
}

type SpendingLine struct {
	ID     uint            `json:"id"`
	Item   string          `json:"item"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Kind   string          `json:"kind"`
}

// Dashboard is the read model behind the dashboard page.
type Dashboard struct {
	Today          string `json:"today"`
	DateOffsetDays int    `json:"date_offset_days"`

	CurrentBalance  decimal.Decimal  `json:"current_balance"`
	MinBalanceGoal  *decimal.Decimal `json:"min_balance_goal"`
	BalanceStatus   string           `json:"balance_status"`
	NetWorth        decimal.Decimal  `json:"net_worth"`
	HealthScore     int              `json:"health_score"`
	WeeklyIncome    decimal.Decimal  `json:"weekly_income"`
	WeeklyExpenses  decimal.Decimal  `json:"weekly_expenses"`
	WeeklySpendable decimal.Decimal  `json:"weekly_spendable"`
	SafeToSave      decimal.Decimal  `json:"safe_to_save"`
	NextPayday      string           `json:"next_payday,omitempty"`

	Assets           []AssetLine       `json:"assets"`
	Investments      []InvestmentLine  `json:"investments"`
	Spendings        []SpendingLine    `json:"spendings"`
	SavingsGoals     []GoalProgress    `json:"savings_goals"`
	WeeklySummary    []WeekSummary     `json:"weekly_summary"`
	UpcomingPostings []UpcomingPosting `json:"upcoming_postings"`
}

// BuildDashboard composes the read model. It does not mutate the account.
func (m *Manager) BuildDashboard(today time.Time, summaryWeeks int) Dashboard {
	if summaryWeeks <= 0 {
		summaryWeeks = DefaultSummaryWeeks
	}
	a := m.acc
	today = clock.Day(today)

	d := Dashboard{
		Today:            today.Format(dateLayout),
		CurrentBalance:   a.CurrentBalance,
		BalanceStatus:    m.BalanceStatus(),
		NetWorth:         m.NetWorth(),
		HealthScore:      m.HealthScore(),
		WeeklyIncome:     m.WeeklyIncome(),
		WeeklyExpenses:   m.WeeklyExpenses(),
		WeeklySpendable:  m.WeeklySpendable(),
		SafeToSave:       m.SafeAmountToSave(),
		WeeklySummary:    m.WeeklySummary(today, summaryWeeks),
		UpcomingPostings: m.UpcomingPostings(today, upcomingDays),
	}
	if a.MinBalanceGoal.Valid {
		v := a.MinBalanceGoal.Decimal
		d.MinBalanceGoal = &v
	}
	if next, ok := m.NextPayday(today); ok {
		d.NextPayday = next.Format(dateLayout)
	}

	d.Assets = append(d.Assets, AssetLine{Name: "Cash Balance", Value: a.CurrentBalance})
	for _, as := range a.Assets {
		d.Assets = append(d.Assets, AssetLine{Name: as.Name, Value: as.Value})
	}

	d.Investments = make([]InvestmentLine, 0, len(a.Investments))
	for _, inv := range a.Investments {
		d.Investments = append(d.Investments, InvestmentLine{ID: inv.ID, StockName: inv.StockName, Amount: inv.Amount})
	}

	spendings := NewestFirst(a.Spendings)
	d.Spendings = make([]SpendingLine, 0, len(spendings))
	for _, s := range spendings {
		d.Spendings = append(d.Spendings, SpendingLine{
			ID:     s.ID,
			Item:   s.Item,
			Amount: s.Amount,
			Date:   s.Date.Format(dateLayout),
			Kind:   string(s.Kind),
		})
	}

	d.SavingsGoals = make([]GoalProgress, 0, len(a.SavingsGoals))
	for _, p := range m.ProgressReport() {
		if !p.Purchased {
			d.SavingsGoals = append(d.SavingsGoals, p)
		}
	}
	return d
}

// NewestFirst returns a copy of spendings sorted by date, then id, descending.
func NewestFirst(spendings []models.Spending) []models.Spending {
	out := append(spendings[:0:0], spendings...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := clock.Day(out[i].Date), clock.Day(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
