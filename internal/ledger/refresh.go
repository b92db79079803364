package ledger

import (
	"fmt"
	"log"
	"time"

	"budget-ledger/internal/budget"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefreshResult reports what advancing an account to a date changed.
type RefreshResult struct {
	PaydayCredited bool              `json:"payday_credited"`
	Credited       decimal.Decimal   `json:"credited"`
	Posted         []models.Spending `json:"posted"`
}

// CreditPaydayIfDue credits one payday when today is due.
func (s *Service) CreditPaydayIfDue(userID uint, today time.Time) (bool, error) {
	var res RefreshResult
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		return creditPayday(tx, acc, today, &res)
	})
	if err != nil {
		return false, err
	}
	return res.PaydayCredited, nil
}

// PostRecurringExpenses stores the recurring charges due today and returns
// the rows it created. A second call for the same date creates nothing.
func (s *Service) PostRecurringExpenses(userID uint, today time.Time) ([]models.Spending, error) {
	var res RefreshResult
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		return postRecurring(tx, acc, today, &res)
	})
	if err != nil {
		return nil, err
	}
	return res.Posted, nil
}

// Refresh advances the account to today: payday first, then recurring charges.
func (s *Service) Refresh(userID uint, today time.Time) (*RefreshResult, error) {
	var res RefreshResult
	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		return advance(tx, acc, today, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard refreshes the account and builds the dashboard read model.
func (s *Service) Dashboard(userID uint, today time.Time, offsetDays int) (*budget.Dashboard, error) {
	if _, err := s.Refresh(userID, today); err != nil {
		return nil, err
	}
	acc, err := s.view(userID)
	if err != nil {
		return nil, err
	}
	d := budget.NewManager(acc).BuildDashboard(today, s.summaryWeeks)
	d.DateOffsetDays = offsetDays
	return &d, nil
}

func advance(tx *gorm.DB, acc *models.Account, today time.Time, res *RefreshResult) error {
	if err := creditPayday(tx, acc, today, res); err != nil {
		return err
	}
	return postRecurring(tx, acc, today, res)
}

func creditPayday(tx *gorm.DB, acc *models.Account, today time.Time, res *RefreshResult) error {
	m := budget.NewManager(acc)
	if !m.CreditPaydayIfDue(today) {
		return nil
	}
	if err := saveBalance(tx, acc); err != nil {
		return err
	}
	res.PaydayCredited = true
	res.Credited = m.PaydayAmount()
	log.Printf("ledger: account %d payday credited %s", acc.ID, res.Credited.StringFixed(2))
	return nil
}

func postRecurring(tx *gorm.DB, acc *models.Account, today time.Time, res *RefreshResult) error {
	due := budget.DuePostings(acc, today)
	if len(due) == 0 {
		return nil
	}
	for _, p := range due {
		sp := p.Spending(acc.ID)
		if err := tx.Create(&sp).Error; err != nil {
			return fmt.Errorf("post recurring expense %d for %s: %w", p.ExpenseID, p.PeriodKey, err)
		}
		acc.Spendings = append(acc.Spendings, sp)
		res.Posted = append(res.Posted, sp)
	}
	log.Printf("ledger: account %d posted %d recurring charge(s)", acc.ID, len(due))
	return nil
}
