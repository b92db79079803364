package budget

import (
	"errors"
	"testing"

	"budget-ledger/internal/models"
)

func TestWeeksToSaveAll(t *testing.T) {
	acc := salaried()
	acc.CurrentBalance = dec("50")
	acc.RecurringExpenses = []models.RecurringExpense{
		{ID: 1, Name: "groceries", Amount: dec("100"), Frequency: models.FrequencyWeekly},
	}
	// spendable 700/week; needs are 1000 and 400
	acc.SavingsGoals = []models.SavingsGoal{
		goal(2, "tv", "500", "100"),
		goal(1, "laptop", "1000"),
	}

	weeks, err := NewManager(acc).WeeksToSaveAll(0)
	if err != nil {
		t.Fatalf("WeeksToSaveAll() error = %v", err)
	}
	if weeks != 2 {
		t.Errorf("WeeksToSaveAll() = %d, want 2", weeks)
	}

	// the projection runs on a copy
	if !acc.CurrentBalance.Equal(dec("50")) {
		t.Errorf("balance changed to %s", acc.CurrentBalance)
	}
	if len(acc.SavingsGoals[0].Deposits) != 1 || len(acc.SavingsGoals[1].Deposits) != 0 {
		t.Errorf("deposits leaked into the account: %d, %d",
			len(acc.SavingsGoals[0].Deposits), len(acc.SavingsGoals[1].Deposits))
	}
}

func TestWeeksToSaveAll_GreedyByID(t *testing.T) {
	acc := salaried() // 800/week
	acc.SavingsGoals = []models.SavingsGoal{
		goal(1, "a", "800"),
		goal(2, "b", "1"),
	}
	// week 1 goes entirely to goal 1; goal 2 waits for week 2
	weeks, err := NewManager(acc).WeeksToSaveAll(0)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if weeks != 2 {
		t.Errorf("weeks = %d, want 2", weeks)
	}
}

func TestWeeksToSaveAll_NothingToFund(t *testing.T) {
	acc := salaried()
	funded := goal(1, "bike", "100", "100")
	bought := goal(2, "car", "5000")
	bought.Purchased = true
	acc.SavingsGoals = []models.SavingsGoal{funded, bought}

	weeks, err := NewManager(acc).WeeksToSaveAll(0)
	if err != nil || weeks != 0 {
		t.Errorf("WeeksToSaveAll() = %d, %v; want 0, nil", weeks, err)
	}
}

func TestWeeksToSaveAll_Unreachable(t *testing.T) {
	acc := &models.Account{SavingsGoals: []models.SavingsGoal{goal(1, "bike", "100")}}
	if _, err := NewManager(acc).WeeksToSaveAll(0); !errors.Is(err, ErrProjectionUnreachable) {
		t.Errorf("zero income: error = %v, want ErrProjectionUnreachable", err)
	}

	capped := salaried()
	capped.SavingsGoals = []models.SavingsGoal{goal(1, "boat", "1600")}
	if _, err := NewManager(capped).WeeksToSaveAll(1); !errors.Is(err, ErrProjectionUnreachable) {
		t.Errorf("week cap: error = %v, want ErrProjectionUnreachable", err)
	}
	if weeks, err := NewManager(capped).WeeksToSaveAll(2); err != nil || weeks != 2 {
		t.Errorf("WeeksToSaveAll(2) = %d, %v; want 2, nil", weeks, err)
	}
}
