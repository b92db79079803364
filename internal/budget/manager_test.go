package budget

import (
	"testing"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

func TestWeeklyIncome(t *testing.T) {
	acc := &models.Account{}
	if got := NewManager(acc).WeeklyIncome(); !got.IsZero() {
		t.Errorf("WeeklyIncome() with no wage = %s, want 0", got)
	}

	acc.HourlyWage = nullDec("20")
	if got := NewManager(acc).WeeklyIncome(); !got.IsZero() {
		t.Errorf("WeeklyIncome() without hours = %s, want 0", got)
	}

	if got := NewManager(salaried()).WeeklyIncome(); !got.Equal(dec("800")) {
		t.Errorf("WeeklyIncome() = %s, want 800", got)
	}
}

func TestWeeklyExpenses_Normalisation(t *testing.T) {
	acc := salaried()
	acc.RecurringExpenses = []models.RecurringExpense{
		{ID: 1, Name: "coffee", Amount: dec("10"), Frequency: models.FrequencyDaily},
		{ID: 2, Name: "gym", Amount: dec("100"), Frequency: models.FrequencyWeekly},
		{ID: 3, Name: "rent", Amount: dec("400"), Frequency: models.FrequencyMonthly},
	}
	if got := NewManager(acc).WeeklyExpenses(); !got.Equal(dec("270")) {
		t.Errorf("WeeklyExpenses() = %s, want 270", got)
	}
}

func TestWeeklySpendable(t *testing.T) {
	acc := salaried()
	acc.RecurringExpenses = []models.RecurringExpense{
		{ID: 1, Name: "groceries", Amount: dec("100"), Frequency: models.FrequencyWeekly},
	}
	if got := NewManager(acc).WeeklySpendable(); !got.Equal(dec("700")) {
		t.Errorf("WeeklySpendable() = %s, want 700", got)
	}

	acc.RecurringExpenses = append(acc.RecurringExpenses,
		models.RecurringExpense{ID: 2, Name: "rent", Amount: dec("9000"), Frequency: models.FrequencyMonthly})
	if got := NewManager(acc).WeeklySpendable(); !got.IsZero() {
		t.Errorf("WeeklySpendable() with expenses above income = %s, want 0", got)
	}

	if got := NewManager(&models.Account{}).WeeklySpendable(); got.IsNegative() {
		t.Errorf("WeeklySpendable() = %s, must never be negative", got)
	}
}

func TestCreditPaydayIfDue_Weekly(t *testing.T) {
	acc := salaried()
	acc.PayDayOfWeek = intPtr(0) // Monday
	m := NewManager(acc)

	monday := clock.Date(2025, 5, 5)
	if !m.CreditPaydayIfDue(monday) {
		t.Fatal("first Monday should credit")
	}
	if !acc.CurrentBalance.Equal(dec("800")) {
		t.Fatalf("balance = %s, want 800", acc.CurrentBalance)
	}
	if m.CreditPaydayIfDue(monday) {
		t.Error("second call on the same day must not credit")
	}
	if !acc.CurrentBalance.Equal(dec("800")) {
		t.Errorf("balance after repeat = %s, want 800", acc.CurrentBalance)
	}
	if m.CreditPaydayIfDue(monday.AddDate(0, 0, 1)) {
		t.Error("Tuesday is not a payday")
	}
	if !m.CreditPaydayIfDue(monday.AddDate(0, 0, 7)) {
		t.Error("next Monday should credit")
	}
	if !acc.CurrentBalance.Equal(dec("1600")) {
		t.Errorf("balance = %s, want 1600", acc.CurrentBalance)
	}
	if !acc.LastPayCredit.Equal(clock.Date(2025, 5, 12)) {
		t.Errorf("LastPayCredit = %s, want 2025-05-12", acc.LastPayCredit)
	}
}

func TestCreditPaydayIfDue_Biweekly(t *testing.T) {
	acc := salaried()
	acc.PayFrequency = models.PayBiweekly
	acc.PayDayOfWeek = intPtr(0)
	m := NewManager(acc)

	if !m.CreditPaydayIfDue(clock.Date(2025, 5, 5)) {
		t.Fatal("first payday should credit")
	}
	if !acc.CurrentBalance.Equal(dec("1600")) {
		t.Fatalf("balance = %s, want 1600", acc.CurrentBalance)
	}
	if m.CreditPaydayIfDue(clock.Date(2025, 5, 12)) {
		t.Error("one week into a biweekly cycle must not credit")
	}
	if !m.CreditPaydayIfDue(clock.Date(2025, 5, 19)) {
		t.Error("two weeks later should credit")
	}
	if !acc.CurrentBalance.Equal(dec("3200")) {
		t.Errorf("balance = %s, want 3200", acc.CurrentBalance)
	}
}

func TestCreditPaydayIfDue_NeverRegresses(t *testing.T) {
	acc := salaried()
	acc.PayDayOfWeek = intPtr(0)
	acc.LastPayCredit = timePtr(clock.Date(2025, 5, 12))
	m := NewManager(acc)

	if m.CreditPaydayIfDue(clock.Date(2025, 5, 5)) {
		t.Error("a date before the last credit must not credit")
	}
	if !acc.LastPayCredit.Equal(clock.Date(2025, 5, 12)) {
		t.Errorf("LastPayCredit regressed to %s", acc.LastPayCredit)
	}

	acc.PayDayOfWeek = nil
	if m.CreditPaydayIfDue(clock.Date(2025, 5, 19)) {
		t.Error("no pay day configured must never credit")
	}
}

func TestSafeAmountToSave(t *testing.T) {
	acc := &models.Account{CurrentBalance: dec("500")}
	m := NewManager(acc)

	if got := m.SafeAmountToSave(); !got.Equal(dec("500")) {
		t.Errorf("no floor: got %s, want 500", got)
	}
	acc.MinBalanceGoal = nullDec("200")
	if got := m.SafeAmountToSave(); !got.Equal(dec("300")) {
		t.Errorf("floor 200: got %s, want 300", got)
	}
	acc.MinBalanceGoal = nullDec("600")
	if got := m.SafeAmountToSave(); !got.IsZero() {
		t.Errorf("floor above balance: got %s, want 0", got)
	}
}

func TestNetWorth(t *testing.T) {
	acc := &models.Account{
		CurrentBalance: dec("1000"),
		Assets:         []models.Asset{{Name: "car", Value: dec("500")}},
		Investments:    []models.Investment{{StockName: "VTI", Amount: dec("250")}},
		Spendings:      []models.Spending{spending(1, "100", clock.Date(2025, 5, 1))},
	}
	if got := NewManager(acc).NetWorth(); !got.Equal(dec("1650")) {
		t.Errorf("NetWorth() = %s, want 1650", got)
	}
}

func TestHealthScore(t *testing.T) {
	if got := NewManager(&models.Account{}).HealthScore(); got != 50 {
		t.Errorf("no income: HealthScore() = %d, want 50", got)
	}

	zeroHours := salaried()
	zeroHours.HoursPerWeek = nullDec("0")
	if got := NewManager(zeroHours).HealthScore(); got != 50 {
		t.Errorf("zero hours: HealthScore() = %d, want 50", got)
	}

	// monthly income is 3200
	rich := salaried()
	rich.SavingsGoals = []models.SavingsGoal{goal(1, "house", "1000000", "320000")}
	if got := NewManager(rich).HealthScore(); got != 100 {
		t.Errorf("savings 100x income: HealthScore() = %d, want 100", got)
	}

	broke := salaried()
	broke.Spendings = []models.Spending{spending(1, "1000000", clock.Date(2025, 5, 1))}
	if got := NewManager(broke).HealthScore(); got != 0 {
		t.Errorf("huge spending: HealthScore() = %d, want 0", got)
	}

	mid := salaried()
	mid.SavingsGoals = []models.SavingsGoal{goal(1, "bike", "2000", "800")}
	mid.Spendings = []models.Spending{spending(1, "320", clock.Date(2025, 5, 1))}
	// 50 + 40*800/3200 - 30*320/3200 = 50 + 10 - 3
	if got := NewManager(mid).HealthScore(); got != 57 {
		t.Errorf("HealthScore() = %d, want 57", got)
	}
}

func TestBalanceStatus(t *testing.T) {
	acc := &models.Account{CurrentBalance: dec("150")}
	m := NewManager(acc)

	if got := m.BalanceStatus(); got != "No minimum balance goal set" {
		t.Errorf("BalanceStatus() = %q", got)
	}
	acc.MinBalanceGoal = nullDec("100")
	if got := m.BalanceStatus(); got != "Above minimum balance goal by $50.00" {
		t.Errorf("BalanceStatus() = %q", got)
	}
	acc.MinBalanceGoal = nullDec("200.5")
	if got := m.BalanceStatus(); got != "Below minimum balance goal by $50.50" {
		t.Errorf("BalanceStatus() = %q", got)
	}
}

func TestWeeklySummary(t *testing.T) {
	acc := salaried()
	acc.Spendings = []models.Spending{
		spending(1, "50", clock.Date(2025, 5, 28)),
		spending(2, "20", clock.Date(2025, 5, 22)),
		spending(3, "10", clock.Date(2025, 5, 21)),
		spending(4, "5", clock.Date(2025, 5, 1)),
		spending(5, "999", clock.Date(2025, 4, 30)),
	}

	got := NewManager(acc).WeeklySummary(clock.Date(2025, 5, 28), 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	want := []struct {
		start, end, expenses string
	}{
		{"2025-05-01", "2025-05-07", "5"},
		{"2025-05-08", "2025-05-14", "0"},
		{"2025-05-15", "2025-05-21", "10"},
		{"2025-05-22", "2025-05-28", "70"},
	}
	for i, w := range want {
		if got[i].Start != w.start || got[i].End != w.end {
			t.Errorf("week %d = [%s, %s], want [%s, %s]", i, got[i].Start, got[i].End, w.start, w.end)
		}
		if !got[i].Expenses.Equal(dec(w.expenses)) {
			t.Errorf("week %d expenses = %s, want %s", i, got[i].Expenses, w.expenses)
		}
		if !got[i].Income.Equal(dec("800")) {
			t.Errorf("week %d income = %s, want 800", i, got[i].Income)
		}
	}
	if got[3].Label != "May 22 - May 28" {
		t.Errorf("label = %q", got[3].Label)
	}

	if NewManager(acc).WeeklySummary(clock.Date(2025, 5, 28), 0) != nil {
		t.Error("zero weeks should return nil")
	}
}

func TestProgressReport(t *testing.T) {
	acc := &models.Account{SavingsGoals: []models.SavingsGoal{
		goal(1, "bike", "300", "100"),
		goal(2, "free", "0"),
		goal(3, "phone", "200", "150", "100"),
	}}
	report := NewManager(acc).ProgressReport()
	if len(report) != 3 {
		t.Fatalf("len = %d, want 3", len(report))
	}

	cases := []struct {
		percent, remaining string
	}{
		{"33.33", "200"},
		{"0", "0"},
		{"100", "0"},
	}
	for i, tc := range cases {
		if !report[i].ProgressPercent.Equal(dec(tc.percent)) {
			t.Errorf("goal %d percent = %s, want %s", i, report[i].ProgressPercent, tc.percent)
		}
		if !report[i].Remaining.Equal(dec(tc.remaining)) {
			t.Errorf("goal %d remaining = %s, want %s", i, report[i].Remaining, tc.remaining)
		}
	}
	if !report[2].SavedAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("saved = %s, want 250", report[2].SavedAmount)
	}
}
