package budget

import (
	"encoding/json"
	"testing"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"
)

func TestBuildDashboard(t *testing.T) {
	acc := salaried()
	acc.CurrentBalance = dec("1000")
	acc.MinBalanceGoal = nullDec("250")
	acc.PayDayOfWeek = intPtr(4)
	acc.Assets = []models.Asset{{ID: 1, Name: "car", Value: dec("4000")}}
	acc.Investments = []models.Investment{{ID: 1, StockName: "VTI", Amount: dec("300")}}
	acc.Spendings = []models.Spending{
		spending(1, "10", clock.Date(2025, 5, 20)),
		spending(2, "20", clock.Date(2025, 5, 27)),
		spending(3, "30", clock.Date(2025, 5, 27)),
	}
	bought := goal(2, "car", "50", "50")
	bought.Purchased = true
	acc.SavingsGoals = []models.SavingsGoal{goal(1, "bike", "400", "100"), bought}

	d := NewManager(acc).BuildDashboard(clock.Date(2025, 5, 28), 0)

	if d.Today != "2025-05-28" {
		t.Errorf("Today = %s", d.Today)
	}
	if len(d.Assets) != 2 || d.Assets[0].Name != "Cash Balance" || !d.Assets[0].Value.Equal(dec("1000")) {
		t.Errorf("Assets = %+v", d.Assets)
	}
	wantOrder := []uint{3, 2, 1}
	for i, id := range wantOrder {
		if d.Spendings[i].ID != id {
			t.Errorf("Spendings[%d].ID = %d, want %d", i, d.Spendings[i].ID, id)
		}
	}
	if acc.Spendings[0].ID != 1 {
		t.Error("BuildDashboard reordered the account's spendings")
	}
	if len(d.SavingsGoals) != 1 || d.SavingsGoals[0].GoalID != 1 {
		t.Errorf("SavingsGoals = %+v, want only the active goal", d.SavingsGoals)
	}
	if len(d.WeeklySummary) != DefaultSummaryWeeks {
		t.Errorf("WeeklySummary has %d weeks", len(d.WeeklySummary))
	}
	// 1000 + 4000 + 300 - 60
	if !d.NetWorth.Equal(dec("5240")) {
		t.Errorf("NetWorth = %s", d.NetWorth)
	}
	if d.BalanceStatus != "Above minimum balance goal by $750.00" {
		t.Errorf("BalanceStatus = %q", d.BalanceStatus)
	}
	if d.NextPayday != "2025-05-30" {
		t.Errorf("NextPayday = %q", d.NextPayday)
	}
	if !d.SafeToSave.Equal(dec("750")) || !d.WeeklySpendable.Equal(dec("800")) {
		t.Errorf("SafeToSave = %s, WeeklySpendable = %s", d.SafeToSave, d.WeeklySpendable)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"net_worth", "health_score", "assets", "spendings", "savings_goals", "weekly_summary"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("json is missing %q", key)
		}
	}
}
