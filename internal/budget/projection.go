package budget

import (
	"fmt"
	"sort"

	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultProjectionWeeks caps WeeksToSaveAll when no limit is configured.
const DefaultProjectionWeeks = 52 * 100

// WeeksToSaveAll simulates weekly paydays on a copy of the account. Each week
// the spendable surplus is credited and handed out to unfunded active goals in
// ascending id order until the surplus runs out. It returns the number of weeks
// until every active goal is funded. The account itself is never modified.
func (m *Manager) WeeksToSaveAll(maxWeeks int) (int, error) {
	if maxWeeks <= 0 {
		maxWeeks = DefaultProjectionWeeks
	}

	sim := cloneAccount(m.acc)
	goals := sim.ActiveGoals()
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })

	if allFunded(goals) {
		return 0, nil
	}

	surplus := NewManager(sim).WeeklySpendable()
	if !surplus.IsPositive() {
		return 0, ErrProjectionUnreachable
	}

	weeks := 0
	for !allFunded(goals) {
		if weeks >= maxWeeks {
			return 0, fmt.Errorf("%w: not funded after %d weeks", ErrProjectionUnreachable, maxWeeks)
		}
		sim.CurrentBalance = sim.CurrentBalance.Add(surplus)

		available := surplus
		for _, g := range goals {
			if !available.IsPositive() {
				break
			}
			toSave := decimal.Min(available, g.Remaining())
			if !toSave.IsPositive() {
				continue
			}
			g.Deposits = append(g.Deposits, models.SavingsDeposit{SavingsGoalID: g.ID, Amount: toSave})
			sim.CurrentBalance = sim.CurrentBalance.Sub(toSave)
			available = available.Sub(toSave)
		}
		weeks++
	}
	return weeks, nil
}

func allFunded(goals []*models.SavingsGoal) bool {
	for _, g := range goals {
		if !g.IsFunded() {
			return false
		}
	}
	return true
}

// cloneAccount copies the account deep enough that the projection can append
// deposits and move the balance without aliasing the original slices.
func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.RecurringExpenses = append([]models.RecurringExpense(nil), a.RecurringExpenses...)
	c.Spendings = append([]models.Spending(nil), a.Spendings...)
	c.Assets = append([]models.Asset(nil), a.Assets...)
	c.Investments = append([]models.Investment(nil), a.Investments...)
	c.SavingsGoals = make([]models.SavingsGoal, len(a.SavingsGoals))
	for i, g := range a.SavingsGoals {
		g.Deposits = append([]models.SavingsDeposit(nil), g.Deposits...)
		c.SavingsGoals[i] = g
	}
	return &c
}
