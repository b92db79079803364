// Package ledger persists budget operations.
//
// The rules live in package budget and work on a loaded account. Service
// loads that account, applies the rule and writes the outcome back inside one
// gorm transaction, so a failed precondition never leaves partial state.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"budget-ledger/internal/budget"
	"budget-ledger/internal/clock"
	"budget-ledger/internal/config"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidInput marks a rejected sync or restore payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStaleFinancials means a payday was credited after the form was loaded.
	ErrStaleFinancials = errors.New("financials changed since they were loaded; reload and retry")
)

// Service serialises all writes to an account behind a per-account lock.
type Service struct {
	db    *gorm.DB
	clock clock.Clock

	summaryWeeks       int
	projectionMaxWeeks int

	mu    sync.Mutex
	locks map[uint]*sync.RWMutex // by user id
}

func NewService(db *gorm.DB, clk clock.Clock, cfg config.BudgetConfig) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.SummaryWeeks <= 0 {
		cfg.SummaryWeeks = budget.DefaultSummaryWeeks
	}
	if cfg.ProjectionMaxWeeks <= 0 {
		cfg.ProjectionMaxWeeks = budget.DefaultProjectionWeeks
	}
	return &Service{
		db:                 db,
		clock:              clk,
		summaryWeeks:       cfg.SummaryWeeks,
		projectionMaxWeeks: cfg.ProjectionMaxWeeks,
		locks:              make(map[uint]*sync.RWMutex),
	}
}

// Today is the effective date for a session shifted by offsetDays.
func (s *Service) Today(offsetDays int) time.Time {
	return clock.Today(s.clock, offsetDays)
}

func (s *Service) lockFor(userID uint) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[userID] = l
	}
	return l
}

// GetOrCreateAccount returns the user's account, creating an empty one on
// first access.
func (s *Service) GetOrCreateAccount(userID uint) (*models.Account, error) {
	acc := models.Account{
		UserID:         userID,
		CurrentBalance: decimal.Zero,
		PayFrequency:   models.PayWeekly,
	}
	err := s.db.Where("user_id = ?", userID).FirstOrCreate(&acc).Error
	if err != nil {
		// lost a create race on the unique user_id index
		if rerr := s.db.Where("user_id = ?", userID).First(&acc).Error; rerr != nil {
			return nil, fmt.Errorf("get or create account: %w", err)
		}
	}
	return &acc, nil
}

// mutate runs fn in a transaction on a freshly loaded, row-locked account
// while holding the account's write lock.
func (s *Service) mutate(userID uint, fn func(tx *gorm.DB, acc *models.Account) error) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.GetOrCreateAccount(userID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		acc, err := loadAccount(tx, userID, true)
		if err != nil {
			return err
		}
		return fn(tx, acc)
	})
}

// view loads a private copy of the account under the read lock.
func (s *Service) view(userID uint) (*models.Account, error) {
	l := s.lockFor(userID)
	l.RLock()
	defer l.RUnlock()

	if _, err := s.GetOrCreateAccount(userID); err != nil {
		return nil, err
	}
	return loadAccount(s.db, userID, false)
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func loadAccount(tx *gorm.DB, userID uint, forUpdate bool) (*models.Account, error) {
	q := tx.
		Preload("RecurringExpenses", byID).
		Preload("Spendings", byID).
		Preload("SavingsGoals", byID).
		Preload("SavingsGoals.Deposits", byID).
		Preload("Assets", byID).
		Preload("Investments", byID)
	if forUpdate {
		// SQLite ignores row locks; the per-account mutex covers it there
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var acc models.Account
	if err := q.Where("user_id = ?", userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, budget.ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acc, nil
}

// saveBalance writes the fields the engine moves: balance and payday stamp.
func saveBalance(tx *gorm.DB, acc *models.Account) error {
	err := tx.Model(&models.Account{ID: acc.ID}).Updates(map[string]interface{}{
		"current_balance": acc.CurrentBalance,
		"last_pay_credit": acc.LastPayCredit,
	}).Error
	if err != nil {
		return fmt.Errorf("update account %d: %w", acc.ID, err)
	}
	return nil
}
