package ledger

import (
	"fmt"
	"log"
	"strings"
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Financials is the editable profile of an account. Rows carry their id;
// a zero id means "create". LastPayCredit is echoed back on save so a form
// loaded before a payday credit cannot overwrite the credited balance.
type Financials struct {
	LastPayCredit  string              `json:"last_pay_credit"`
	CurrentBalance decimal.Decimal     `json:"current_balance"`
	MinBalanceGoal decimal.NullDecimal `json:"min_balance_goal"`
	HourlyWage     decimal.NullDecimal `json:"hourly_wage"`
	HoursPerWeek   decimal.NullDecimal `json:"hours_per_week"`
	PayFrequency   models.PayFrequency `json:"pay_frequency"`
	PayDayOfWeek   *int                `json:"pay_day_of_week"`

	RecurringExpenses []ExpenseRow    `json:"recurring_expenses"`
	SavingsGoals      []GoalRow       `json:"savings_goals"`
	Spendings         []SpendingRow   `json:"spendings"`
	Assets            []AssetRow      `json:"assets"`
	Investments       []InvestmentRow `json:"investments"`
}

type ExpenseRow struct {
	ID        uint                    `json:"id"`
	Name      string                  `json:"name"`
	Amount    decimal.Decimal         `json:"amount"`
	Frequency models.ExpenseFrequency `json:"frequency"`
}

// GoalRow.Purchased is informational; purchased goals can only be deleted.
type GoalRow struct {
	ID        uint            `json:"id"`
	Item      string          `json:"item"`
	Cost      decimal.Decimal `json:"cost"`
	Saved     decimal.Decimal `json:"saved"`
	Purchased bool            `json:"purchased"`
}

// SpendingRow covers manual spendings only. Recurring and purchase rows are
// generated and are listed read-only.
type SpendingRow struct {
	ID     uint                `json:"id"`
	Item   string              `json:"item"`
	Amount decimal.Decimal     `json:"amount"`
	Date   string              `json:"date"`
	Kind   models.SpendingKind `json:"kind,omitempty"`
}

type AssetRow struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type InvestmentRow struct {
	ID        uint            `json:"id"`
	StockName string          `json:"stock_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// Financials returns the account as an editable form.
func (s *Service) Financials(userID uint) (*Financials, error) {
	acc, err := s.view(userID)
	if err != nil {
		return nil, err
	}

	f := &Financials{
		LastPayCredit:     payCreditToken(acc),
		CurrentBalance:    acc.CurrentBalance,
		MinBalanceGoal:    acc.MinBalanceGoal,
		HourlyWage:        acc.HourlyWage,
		HoursPerWeek:      acc.HoursPerWeek,
		PayFrequency:      acc.PayFrequency,
		PayDayOfWeek:      acc.PayDayOfWeek,
		RecurringExpenses: make([]ExpenseRow, 0, len(acc.RecurringExpenses)),
		SavingsGoals:      make([]GoalRow, 0, len(acc.SavingsGoals)),
		Spendings:         make([]SpendingRow, 0, len(acc.Spendings)),
		Assets:            make([]AssetRow, 0, len(acc.Assets)),
		Investments:       make([]InvestmentRow, 0, len(acc.Investments)),
	}
	for _, e := range acc.RecurringExpenses {
		f.RecurringExpenses = append(f.RecurringExpenses, ExpenseRow{ID: e.ID, Name: e.Name, Amount: e.Amount, Frequency: e.Frequency})
	}
	for i := range acc.SavingsGoals {
		g := &acc.SavingsGoals[i]
		f.SavingsGoals = append(f.SavingsGoals, GoalRow{ID: g.ID, Item: g.Item, Cost: g.Cost, Saved: g.CurrentAmount(), Purchased: g.Purchased})
	}
	for _, sp := range acc.Spendings {
		f.Spendings = append(f.Spendings, SpendingRow{
			ID:     sp.ID,
			Item:   sp.Item,
			Amount: sp.Amount,
			Date:   sp.Date.Format(util.DateLayout),
			Kind:   sp.Kind,
		})
	}
	for _, a := range acc.Assets {
		f.Assets = append(f.Assets, AssetRow{ID: a.ID, Name: a.Name, Value: a.Value})
	}
	for _, inv := range acc.Investments {
		f.Investments = append(f.Investments, InvestmentRow{ID: inv.ID, StockName: inv.StockName, Amount: inv.Amount})
	}
	return f, nil
}

func payCreditToken(acc *models.Account) string {
	if acc.LastPayCredit == nil {
		return ""
	}
	return acc.LastPayCredit.Format(util.DateLayout)
}

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
}

func (f *Financials) validate() error {
	if err := util.ValidateNonNegative(f.CurrentBalance); err != nil {
		return invalid("current_balance", err)
	}
	for field, v := range map[string]decimal.NullDecimal{
		"min_balance_goal": f.MinBalanceGoal,
		"hourly_wage":      f.HourlyWage,
		"hours_per_week":   f.HoursPerWeek,
	} {
		if !v.Valid {
			continue
		}
		if err := util.ValidateNonNegative(v.Decimal); err != nil {
			return invalid(field, err)
		}
	}
	if f.HoursPerWeek.Valid && f.HoursPerWeek.Decimal.GreaterThan(decimal.NewFromInt(168)) {
		return invalid("hours_per_week", fmt.Errorf("at most 168 hours in a week"))
	}
	if f.PayFrequency == "" {
		f.PayFrequency = models.PayWeekly
	}
	if !f.PayFrequency.Valid() {
		return invalid("pay_frequency", fmt.Errorf("unknown value %q", f.PayFrequency))
	}
	if d := f.PayDayOfWeek; d != nil && (*d < 0 || *d > 6) {
		return invalid("pay_day_of_week", fmt.Errorf("must be 0 (Monday) to 6 (Sunday), got %d", *d))
	}

	for i, e := range f.RecurringExpenses {
		field := fmt.Sprintf("recurring_expenses[%d]", i)
		if err := util.ValidateName(e.Name); err != nil {
			return invalid(field+".name", err)
		}
		if err := util.ValidateAmount(e.Amount); err != nil {
			return invalid(field+".amount", err)
		}
		if !e.Frequency.Valid() {
			return invalid(field+".frequency", fmt.Errorf("unknown value %q", e.Frequency))
		}
	}
	for i, g := range f.SavingsGoals {
		field := fmt.Sprintf("savings_goals[%d]", i)
		if err := util.ValidateName(g.Item); err != nil {
			return invalid(field+".item", err)
		}
		if err := util.ValidateAmount(g.Cost); err != nil {
			return invalid(field+".cost", err)
		}
	}
	for i, sp := range f.Spendings {
		field := fmt.Sprintf("spendings[%d]", i)
		if err := util.ValidateName(sp.Item); err != nil {
			return invalid(field+".item", err)
		}
		if err := util.ValidateAmount(sp.Amount); err != nil {
			return invalid(field+".amount", err)
		}
		if sp.Date != "" {
			if err := util.ValidateDate(sp.Date); err != nil {
				return invalid(field+".date", err)
			}
		}
	}
	for i, a := range f.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		if err := util.ValidateName(a.Name); err != nil {
			return invalid(field+".name", err)
		}
		if err := util.ValidateNonNegative(a.Value); err != nil {
			return invalid(field+".value", err)
		}
	}
	for i, inv := range f.Investments {
		field := fmt.Sprintf("investments[%d]", i)
		if err := util.ValidateName(inv.StockName); err != nil {
			return invalid(field+".stock_name", err)
		}
		if err := util.ValidateNonNegative(inv.Amount); err != nil {
			return invalid(field+".amount", err)
		}
	}
	return nil
}

// SyncFinancials replaces the account profile with f. Rows are matched by id:
// known ids are updated, zero ids are created and rows missing from f are
// deleted. Purchased goals keep their values, and generated spendings are
// left untouched. A form loaded before the latest payday credit is rejected
// with ErrStaleFinancials.
func (s *Service) SyncFinancials(userID uint, f *Financials, today time.Time) error {
	if err := f.validate(); err != nil {
		return err
	}

	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		if f.LastPayCredit != payCreditToken(acc) {
			return ErrStaleFinancials
		}
		err := tx.Model(&models.Account{ID: acc.ID}).Updates(map[string]interface{}{
			"current_balance":  f.CurrentBalance,
			"min_balance_goal": f.MinBalanceGoal,
			"hourly_wage":      f.HourlyWage,
			"hours_per_week":   f.HoursPerWeek,
			"pay_frequency":    f.PayFrequency,
			"pay_day_of_week":  f.PayDayOfWeek,
		}).Error
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		if err := syncExpenses(tx, acc, f.RecurringExpenses); err != nil {
			return err
		}
		if err := syncGoals(tx, acc, f.SavingsGoals); err != nil {
			return err
		}
		if err := syncSpendings(tx, acc, f.Spendings, clock.Day(today)); err != nil {
			return err
		}
		if err := syncAssets(tx, acc, f.Assets); err != nil {
			return err
		}
		return syncInvestments(tx, acc, f.Investments)
	})
	if err != nil {
		return err
	}
	log.Printf("ledger: user %d financials synced", userID)
	return nil
}

// staleIDs returns the ids in existing that are not kept.
func staleIDs(existing []uint, kept map[uint]bool) []uint {
	var out []uint
	for _, id := range existing {
		if !kept[id] {
			out = append(out, id)
		}
	}
	return out
}

func unknownRow(field string, id uint) error {
	return invalid(field, fmt.Errorf("id %d does not belong to this account", id))
}

func syncExpenses(tx *gorm.DB, acc *models.Account, rows []ExpenseRow) error {
	known := make(map[uint]bool, len(acc.RecurringExpenses))
	ids := make([]uint, 0, len(acc.RecurringExpenses))
	for _, e := range acc.RecurringExpenses {
		known[e.ID] = true
		ids = append(ids, e.ID)
	}

	kept := make(map[uint]bool)
	for _, r := range rows {
		if r.ID == 0 {
			e := models.RecurringExpense{AccountID: acc.ID, Name: strings.TrimSpace(r.Name), Amount: r.Amount, Frequency: r.Frequency}
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("create recurring expense: %w", err)
			}
			continue
		}
		if !known[r.ID] {
			return unknownRow("recurring_expenses", r.ID)
		}
		kept[r.ID] = true
		err := tx.Model(&models.RecurringExpense{ID: r.ID}).Updates(map[string]interface{}{
			"name":      strings.TrimSpace(r.Name),
			"amount":    r.Amount,
			"frequency": r.Frequency,
		}).Error
		if err != nil {
			return fmt.Errorf("update recurring expense %d: %w", r.ID, err)
		}
	}

	if stale := staleIDs(ids, kept); len(stale) > 0 {
		if err := tx.Delete(&models.RecurringExpense{}, stale).Error; err != nil {
			return fmt.Errorf("delete recurring expenses: %w", err)
		}
	}
	return nil
}

func syncGoals(tx *gorm.DB, acc *models.Account, rows []GoalRow) error {
	known := make(map[uint]*models.SavingsGoal, len(acc.SavingsGoals))
	ids := make([]uint, 0, len(acc.SavingsGoals))
	for i := range acc.SavingsGoals {
		g := &acc.SavingsGoals[i]
		known[g.ID] = g
		ids = append(ids, g.ID)
	}

	kept := make(map[uint]bool)
	for _, r := range rows {
		if r.ID == 0 {
			g := models.SavingsGoal{AccountID: acc.ID, Item: strings.TrimSpace(r.Item), Cost: r.Cost}
			if err := tx.Create(&g).Error; err != nil {
				return fmt.Errorf("create savings goal: %w", err)
			}
			continue
		}
		g, ok := known[r.ID]
		if !ok {
			return unknownRow("savings_goals", r.ID)
		}
		kept[r.ID] = true
		if g.Purchased {
			continue
		}
		err := tx.Model(&models.SavingsGoal{ID: r.ID}).Updates(map[string]interface{}{
			"item": strings.TrimSpace(r.Item),
			"cost": r.Cost,
		}).Error
		if err != nil {
			return fmt.Errorf("update savings goal %d: %w", r.ID, err)
		}
	}

	if stale := staleIDs(ids, kept); len(stale) > 0 {
		if err := tx.Where("savings_goal_id IN ?", stale).Delete(&models.SavingsDeposit{}).Error; err != nil {
			return fmt.Errorf("delete deposits: %w", err)
		}
		if err := tx.Delete(&models.SavingsGoal{}, stale).Error; err != nil {
			return fmt.Errorf("delete savings goals: %w", err)
		}
	}
	return nil
}

func syncSpendings(tx *gorm.DB, acc *models.Account, rows []SpendingRow, today time.Time) error {
	known := make(map[uint]bool)
	var ids []uint
	for _, sp := range acc.Spendings {
		if sp.Kind == models.SpendingManual {
			known[sp.ID] = true
			ids = append(ids, sp.ID)
		}
	}

	kept := make(map[uint]bool)
	for _, r := range rows {
		if r.Kind != "" && r.Kind != models.SpendingManual {
			// generated rows pass through the form unchanged
			continue
		}
		date := today
		if r.Date != "" {
			date, _ = util.ParseDate(r.Date)
		}
		if r.ID == 0 {
			sp := models.Spending{AccountID: acc.ID, Item: strings.TrimSpace(r.Item), Amount: r.Amount, Date: date, Kind: models.SpendingManual}
			if err := tx.Create(&sp).Error; err != nil {
				return fmt.Errorf("create spending: %w", err)
			}
			continue
		}
		if !known[r.ID] {
			return unknownRow("spendings", r.ID)
		}
		kept[r.ID] = true
		err := tx.Model(&models.Spending{ID: r.ID}).Updates(map[string]interface{}{
			"item":   strings.TrimSpace(r.Item),
			"amount": r.Amount,
			"date":   date,
		}).Error
		if err != nil {
			return fmt.Errorf("update spending %d: %w", r.ID, err)
		}
	}

	if stale := staleIDs(ids, kept); len(stale) > 0 {
		if err := tx.Delete(&models.Spending{}, stale).Error; err != nil {
			return fmt.Errorf("delete spendings: %w", err)
		}
	}
	return nil
}

func syncAssets(tx *gorm.DB, acc *models.Account, rows []AssetRow) error {
	known := make(map[uint]bool, len(acc.Assets))
	ids := make([]uint, 0, len(acc.Assets))
	for _, a := range acc.Assets {
		known[a.ID] = true
		ids = append(ids, a.ID)
	}

	kept := make(map[uint]bool)
	for _, r := range rows {
		if r.ID == 0 {
			a := models.Asset{AccountID: acc.ID, Name: strings.TrimSpace(r.Name), Value: r.Value}
			if err := tx.Create(&a).Error; err != nil {
				return fmt.Errorf("create asset: %w", err)
			}
			continue
		}
		if !known[r.ID] {
			return unknownRow("assets", r.ID)
		}
		kept[r.ID] = true
		err := tx.Model(&models.Asset{ID: r.ID}).Updates(map[string]interface{}{
			"name":  strings.TrimSpace(r.Name),
			"value": r.Value,
		}).Error
		if err != nil {
			return fmt.Errorf("update asset %d: %w", r.ID, err)
		}
	}

	if stale := staleIDs(ids, kept); len(stale) > 0 {
		if err := tx.Delete(&models.Asset{}, stale).Error; err != nil {
			return fmt.Errorf("delete assets: %w", err)
		}
	}
	return nil
}

func syncInvestments(tx *gorm.DB, acc *models.Account, rows []InvestmentRow) error {
	known := make(map[uint]bool, len(acc.Investments))
	ids := make([]uint, 0, len(acc.Investments))
	for _, inv := range acc.Investments {
		known[inv.ID] = true
		ids = append(ids, inv.ID)
	}

	kept := make(map[uint]bool)
	for _, r := range rows {
		if r.ID == 0 {
			inv := models.Investment{AccountID: acc.ID, StockName: strings.TrimSpace(r.StockName), Amount: r.Amount}
			if err := tx.Create(&inv).Error; err != nil {
				return fmt.Errorf("create investment: %w", err)
			}
			continue
		}
		if !known[r.ID] {
			return unknownRow("investments", r.ID)
		}
		kept[r.ID] = true
		err := tx.Model(&models.Investment{ID: r.ID}).Updates(map[string]interface{}{
			"stock_name": strings.TrimSpace(r.StockName),
			"amount":     r.Amount,
		}).Error
		if err != nil {
			return fmt.Errorf("update investment %d: %w", r.ID, err)
		}
	}

	if stale := staleIDs(ids, kept); len(stale) > 0 {
		if err := tx.Delete(&models.Investment{}, stale).Error; err != nil {
			return fmt.Errorf("delete investments: %w", err)
		}
	}
	return nil
}
