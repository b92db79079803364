package budget

import (
	"time"

	"budget-ledger/internal/clock"

	"github.com/shopspring/decimal"
)

// WeekSummary is income and spending for one seven day window.
type WeekSummary struct {
	Label    string          `json:"label"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// WeeklySummary returns the last n windows ending today, oldest first.
// Window i covers [today-7i-6, today-7i]. Income is the current weekly income
// for every window; historical wages are not tracked.
func (m *Manager) WeeklySummary(today time.Time, weeks int) []WeekSummary {
	if weeks <= 0 {
		return nil
	}
	today = clock.Day(today)
	income := m.WeeklyIncome()

	out := make([]WeekSummary, weeks)
	for i := 0; i < weeks; i++ {
		end := today.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -6)

		spent := decimal.Zero
		for _, s := range m.acc.Spendings {
			d := clock.Day(s.Date)
			if !d.Before(start) && !d.After(end) {
				spent = spent.Add(s.Amount)
			}
		}

		out[weeks-1-i] = WeekSummary{
			Label:    start.Format("Jan 2") + " - " + end.Format("Jan 2"),
			Start:    start.Format(dateLayout),
			End:      end.Format(dateLayout),
			Income:   income,
			Expenses: spent,
		}
	}
	return out
}

// GoalProgress reports how far a goal has come.
type GoalProgress struct {
	GoalID          uint            `json:"goal_id"`
	Item            string          `json:"item"`
	SavedAmount     decimal.Decimal `json:"saved_amount"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	Remaining       decimal.Decimal `json:"remaining"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	Purchased       bool            `json:"purchased"`
}

// ProgressReport lists every goal with amounts rounded to cents.
func (m *Manager) ProgressReport() []GoalProgress {
	out := make([]GoalProgress, 0, len(m.acc.SavingsGoals))
	for i := range m.acc.SavingsGoals {
		g := &m.acc.SavingsGoals[i]
		out = append(out, GoalProgress{
			GoalID:          g.ID,
			Item:            g.Item,
			SavedAmount:     g.CurrentAmount().Round(2),
			TargetAmount:    g.Cost.Round(2),
			Remaining:       g.Remaining().Round(2),
			ProgressPercent: g.ProgressPercent().Round(2),
			Purchased:       g.Purchased,
		})
	}
	return out
}
