package budget

import (
	"time"

	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// CheckSpend validates a personal spend against the balance.
func (m *Manager) CheckSpend(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return amountErr(ErrInvalidAmount, amount, m.acc.CurrentBalance)
	}
	if amount.GreaterThan(m.acc.CurrentBalance) {
		return amountErr(ErrInsufficientFunds, amount, m.acc.CurrentBalance)
	}
	return nil
}

// DepositPlan is the outcome of validating a deposit before it is applied.
type DepositPlan struct {
	Goal      *models.SavingsGoal
	Requested decimal.Decimal
	// Amount is what will actually move; it is clamped to the goal's remaining need.
	Amount     decimal.Decimal
	Clamped    bool
	Completes  bool
	NewBalance decimal.Decimal
}

// PlanDeposit checks a deposit against goal and balance:
// amount must be positive, the goal must exist and still accept deposits, and
// the balance must cover the request. Overfunding is clamped to the gap.
func (m *Manager) PlanDeposit(goalID uint, amount decimal.Decimal) (DepositPlan, error) {
	if !amount.IsPositive() {
		return DepositPlan{}, amountErr(ErrInvalidAmount, amount, m.acc.CurrentBalance)
	}
	goal := m.acc.FindGoal(goalID)
	if goal == nil {
		return DepositPlan{}, ErrGoalNotFound
	}
	if goal.Purchased {
		return DepositPlan{}, ErrGoalPurchased
	}
	// a funded goal moves nothing, so the balance is not checked
	remaining := goal.Remaining()
	if remaining.IsPositive() && amount.GreaterThan(m.acc.CurrentBalance) {
		return DepositPlan{}, amountErr(ErrInsufficientFunds, amount, m.acc.CurrentBalance)
	}

	plan := DepositPlan{Goal: goal, Requested: amount, Amount: amount}
	if amount.GreaterThan(remaining) {
		plan.Amount = remaining
		plan.Clamped = true
	}
	plan.Completes = goal.CurrentAmount().Add(plan.Amount).GreaterThanOrEqual(goal.Cost)
	plan.NewBalance = m.acc.CurrentBalance.Sub(plan.Amount)
	return plan, nil
}

// PlanSave is PlanDeposit limited to the safe amount above the minimum
// balance goal.
func (m *Manager) PlanSave(goalID uint, amount decimal.Decimal) (DepositPlan, error) {
	safe := m.SafeAmountToSave()
	if !amount.IsPositive() || amount.GreaterThan(safe) {
		return DepositPlan{}, amountErr(ErrInvalidAmount, amount, safe)
	}
	return m.PlanDeposit(goalID, amount)
}

// CheckPurchase validates marking a goal as purchased by hand.
func (m *Manager) CheckPurchase(goalID uint) (*models.SavingsGoal, error) {
	goal := m.acc.FindGoal(goalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}
	if goal.Purchased {
		return nil, ErrGoalPurchased
	}
	if !goal.IsFunded() {
		return nil, amountErr(ErrGoalNotFunded, goal.Cost, goal.CurrentAmount())
	}
	return goal, nil
}

// PurchaseSpending is the row recorded when a goal is bought.
func PurchaseSpending(accountID uint, goal *models.SavingsGoal, day time.Time) models.Spending {
	goalID := goal.ID
	return models.Spending{
		AccountID:     accountID,
		Item:          PurchaseLabel(goal.Item),
		Amount:        goal.Cost,
		Date:          day,
		Kind:          models.SpendingPurchase,
		SavingsGoalID: &goalID,
	}
}
