package ledger

import (
	"fmt"
	"log"
	"strings"
	"time"

	"budget-ledger/internal/budget"
	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultSpendItem = "Personal spend"

// MakePersonalSpend records a one-off purchase and takes it off the balance.
func (s *Service) MakePersonalSpend(userID uint, item string, amount decimal.Decimal, today time.Time) (*models.Spending, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		item = defaultSpendItem
	}

	var sp models.Spending
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		if err := advance(tx, acc, today, &RefreshResult{}); err != nil {
			return err
		}
		if err := budget.NewManager(acc).CheckSpend(amount); err != nil {
			return err
		}

		sp = models.Spending{
			AccountID: acc.ID,
			Item:      item,
			Amount:    amount,
			Date:      clock.Day(today),
			Kind:      models.SpendingManual,
		}
		if err := tx.Create(&sp).Error; err != nil {
			return fmt.Errorf("create spending: %w", err)
		}
		acc.CurrentBalance = acc.CurrentBalance.Sub(amount)
		return saveBalance(tx, acc)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("ledger: user %d spent %s on %q", userID, amount.StringFixed(2), item)
	return &sp, nil
}

// DepositResult describes a completed deposit.
type DepositResult struct {
	GoalID    uint            `json:"goal_id"`
	Item      string          `json:"item"`
	Requested decimal.Decimal `json:"requested"`
	Amount    decimal.Decimal `json:"amount"`
	Clamped   bool            `json:"clamped"`
	Purchased bool            `json:"purchased"`
	Balance   decimal.Decimal `json:"balance"`
	Message   string          `json:"message"`
}

// CreateDeposit moves money from the balance into a goal. Deposits above the
// remaining need are capped; a deposit that completes the goal also buys it.
func (s *Service) CreateDeposit(userID, goalID uint, amount decimal.Decimal, today time.Time) (*DepositResult, error) {
	return s.deposit(userID, today, func(m *budget.Manager) (budget.DepositPlan, error) {
		return m.PlanDeposit(goalID, amount)
	})
}

// SaveToGoal is CreateDeposit limited to the balance above the minimum
// balance goal.
func (s *Service) SaveToGoal(userID, goalID uint, amount decimal.Decimal, today time.Time) (*DepositResult, error) {
	return s.deposit(userID, today, func(m *budget.Manager) (budget.DepositPlan, error) {
		return m.PlanSave(goalID, amount)
	})
}

func (s *Service) deposit(userID uint, today time.Time, plan func(*budget.Manager) (budget.DepositPlan, error)) (*DepositResult, error) {
	var res *DepositResult
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		if err := advance(tx, acc, today, &RefreshResult{}); err != nil {
			return err
		}
		p, err := plan(budget.NewManager(acc))
		if err != nil {
			return err
		}
		res, err = applyDeposit(tx, acc, p, today)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("ledger: user %d deposited %s to goal %d (purchased=%v)",
		userID, res.Amount.StringFixed(2), res.GoalID, res.Purchased)
	return res, nil
}

func applyDeposit(tx *gorm.DB, acc *models.Account, p budget.DepositPlan, today time.Time) (*DepositResult, error) {
	goal := p.Goal
	day := clock.Day(today)

	// a zero amount only happens on a funded goal that was never bought
	if p.Amount.IsPositive() {
		dep := models.SavingsDeposit{SavingsGoalID: goal.ID, Amount: p.Amount, Date: day}
		if err := tx.Create(&dep).Error; err != nil {
			return nil, fmt.Errorf("create deposit: %w", err)
		}
		goal.Deposits = append(goal.Deposits, dep)
		acc.CurrentBalance = p.NewBalance
		if err := saveBalance(tx, acc); err != nil {
			return nil, err
		}
	}
	if p.Completes {
		if err := purchaseGoal(tx, acc, goal, day); err != nil {
			return nil, err
		}
	}

	res := &DepositResult{
		GoalID:    goal.ID,
		Item:      goal.Item,
		Requested: p.Requested,
		Amount:    p.Amount,
		Clamped:   p.Clamped,
		Purchased: p.Completes,
		Balance:   acc.CurrentBalance,
	}
	res.Message = depositMessage(res)
	return res, nil
}

func depositMessage(r *DepositResult) string {
	var b strings.Builder
	if r.Amount.IsPositive() {
		fmt.Fprintf(&b, "Deposited $%s to %s.", r.Amount.StringFixed(2), r.Item)
		if r.Clamped {
			fmt.Fprintf(&b, " Requested $%s; only the remaining need was taken.", r.Requested.StringFixed(2))
		}
	} else {
		fmt.Fprintf(&b, "%s is already fully funded.", r.Item)
	}
	if r.Purchased {
		fmt.Fprintf(&b, " Goal reached: %s marked as purchased.", r.Item)
	}
	return b.String()
}

// MarkGoalPurchased buys a fully funded goal. Deposits are kept and the
// balance is left alone; the money already moved when it was deposited.
func (s *Service) MarkGoalPurchased(userID, goalID uint, today time.Time) (*models.SavingsGoal, error) {
	var out models.SavingsGoal
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		if err := advance(tx, acc, today, &RefreshResult{}); err != nil {
			return err
		}
		goal, err := budget.NewManager(acc).CheckPurchase(goalID)
		if err != nil {
			return err
		}
		if err := purchaseGoal(tx, acc, goal, clock.Day(today)); err != nil {
			return err
		}
		out = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("ledger: user %d purchased goal %d", userID, goalID)
	return &out, nil
}

func purchaseGoal(tx *gorm.DB, acc *models.Account, goal *models.SavingsGoal, day time.Time) error {
	sp := budget.PurchaseSpending(acc.ID, goal, day)
	if err := tx.Create(&sp).Error; err != nil {
		return fmt.Errorf("create purchase spending: %w", err)
	}
	err := tx.Model(&models.SavingsGoal{ID: goal.ID}).Updates(map[string]interface{}{
		"purchased":     true,
		"purchase_date": day,
	}).Error
	if err != nil {
		return fmt.Errorf("mark goal %d purchased: %w", goal.ID, err)
	}
	goal.Purchased = true
	goal.PurchaseDate = &day
	acc.Spendings = append(acc.Spendings, sp)
	return nil
}

// Projection estimates the weeks needed to fund every active goal. It works
// on a copy and never writes.
func (s *Service) Projection(userID uint) (int, error) {
	acc, err := s.view(userID)
	if err != nil {
		return 0, err
	}
	return budget.NewManager(acc).WeeksToSaveAll(s.projectionMaxWeeks)
}

// Progress lists every goal with its funding progress.
func (s *Service) Progress(userID uint) ([]budget.GoalProgress, error) {
	acc, err := s.view(userID)
	if err != nil {
		return nil, err
	}
	return budget.NewManager(acc).ProgressReport(), nil
}

// MaxSpend is the largest personal spend the balance allows.
func (s *Service) MaxSpend(userID uint) (decimal.Decimal, error) {
	acc, err := s.view(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.CurrentBalance, nil
}

// MaxDeposit returns the largest deposit and the safe amount to save.
func (s *Service) MaxDeposit(userID uint) (balance, safe decimal.Decimal, err error) {
	acc, err := s.view(userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return acc.CurrentBalance, budget.NewManager(acc).SafeAmountToSave(), nil
}

// Spendings returns every spending row, newest first.
func (s *Service) Spendings(userID uint) ([]models.Spending, error) {
	acc, err := s.view(userID)
	if err != nil {
		return nil, err
	}
	return budget.NewestFirst(acc.Spendings), nil
}

// ResetPayday clears the last payday stamp so the next payday credits again.
func (s *Service) ResetPayday(userID uint) error {
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		acc.LastPayCredit = nil
		return saveBalance(tx, acc)
	})
	if err != nil {
		return err
	}
	log.Printf("ledger: user %d payday reset", userID)
	return nil
}

// DeleteAccount removes the account and everything it owns. The next access
// creates a fresh empty account.
func (s *Service) DeleteAccount(userID uint) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		err := tx.Where("user_id = ?", userID).Limit(1).Find(&acc).Error
		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if acc.ID == 0 {
			return nil
		}
		if err := deleteChildren(tx, acc.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Account{}, acc.ID).Error; err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("ledger: user %d account deleted", userID)
	return nil
}

// deleteChildren removes every row owned by the account, deposits first.
// Foreign key cascades are not relied on.
func deleteChildren(tx *gorm.DB, accountID uint) error {
	goals := tx.Model(&models.SavingsGoal{}).Select("id").Where("account_id = ?", accountID)
	if err := tx.Where("savings_goal_id IN (?)", goals).Delete(&models.SavingsDeposit{}).Error; err != nil {
		return fmt.Errorf("delete deposits: %w", err)
	}
	for _, m := range []interface{}{
		&models.SavingsGoal{},
		&models.Spending{},
		&models.RecurringExpense{},
		&models.Asset{},
		&models.Investment{},
	} {
		if err := tx.Where("account_id = ?", accountID).Delete(m).Error; err != nil {
			return fmt.Errorf("delete %T: %w", m, err)
		}
	}
	return nil
}
