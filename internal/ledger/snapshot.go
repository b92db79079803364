package ledger

import (
	"fmt"
	"log"
	"time"

	"budget-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const snapshotVersion = 1

// Snapshot is a full copy of one account, used by encrypted backups.
type Snapshot struct {
	Version int            `json:"version"`
	UserID  uint           `json:"user_id"`
	Created time.Time      `json:"created"`
	Account models.Account `json:"account"`
}

// Snapshot captures the account with everything it owns.
func (s *Service) Snapshot(userID uint) (*Snapshot, error) {
	acc, err := s.view(userID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version: snapshotVersion,
		UserID:  userID,
		Created: s.clock.Now(),
		Account: *acc,
	}, nil
}

// Restore replaces the account's contents with snap. Rows get new ids; the
// links between recurring postings, purchases and their sources are remapped.
func (s *Service) Restore(userID uint, snap *Snapshot) error {
	if snap == nil || snap.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot", ErrInvalidInput)
	}
	if snap.UserID != 0 && snap.UserID != userID {
		return fmt.Errorf("%w: snapshot belongs to another user", ErrInvalidInput)
	}
	src := snap.Account

	err := s.mutate(userID, func(tx *gorm.DB, acc *models.Account) error {
		if err := deleteChildren(tx, acc.ID); err != nil {
			return err
		}
		err := tx.Model(&models.Account{ID: acc.ID}).Updates(map[string]interface{}{
			"current_balance":  src.CurrentBalance,
			"min_balance_goal": src.MinBalanceGoal,
			"hourly_wage":      src.HourlyWage,
			"hours_per_week":   src.HoursPerWeek,
			"pay_frequency":    src.PayFrequency,
			"pay_day_of_week":  src.PayDayOfWeek,
			"last_pay_credit":  src.LastPayCredit,
		}).Error
		if err != nil {
			return fmt.Errorf("restore account: %w", err)
		}

		expenseIDs := make(map[uint]uint, len(src.RecurringExpenses))
		for _, e := range src.RecurringExpenses {
			old := e.ID
			e.ID, e.AccountID = 0, acc.ID
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("restore recurring expense: %w", err)
			}
			expenseIDs[old] = e.ID
		}

		goalIDs := make(map[uint]uint, len(src.SavingsGoals))
		for _, g := range src.SavingsGoals {
			old, deposits := g.ID, g.Deposits
			g.ID, g.AccountID, g.Deposits = 0, acc.ID, nil
			if err := tx.Omit(clause.Associations).Create(&g).Error; err != nil {
				return fmt.Errorf("restore savings goal: %w", err)
			}
			goalIDs[old] = g.ID
			for _, d := range deposits {
				d.ID, d.SavingsGoalID = 0, g.ID
				if err := tx.Create(&d).Error; err != nil {
					return fmt.Errorf("restore deposit: %w", err)
				}
			}
		}

		for _, sp := range src.Spendings {
			sp.ID, sp.AccountID = 0, acc.ID
			if sp.RecurringExpenseID != nil {
				if id, ok := expenseIDs[*sp.RecurringExpenseID]; ok {
					sp.RecurringExpenseID = &id
				} else {
					// the expense was deleted before the backup
					sp.RecurringExpenseID, sp.PeriodKey = nil, nil
				}
			}
			if sp.SavingsGoalID != nil {
				if id, ok := goalIDs[*sp.SavingsGoalID]; ok {
					sp.SavingsGoalID = &id
				} else {
					sp.SavingsGoalID = nil
				}
			}
			if err := tx.Create(&sp).Error; err != nil {
				return fmt.Errorf("restore spending: %w", err)
			}
		}

		for _, a := range src.Assets {
			a.ID, a.AccountID = 0, acc.ID
			if err := tx.Create(&a).Error; err != nil {
				return fmt.Errorf("restore asset: %w", err)
			}
		}
		for _, inv := range src.Investments {
			inv.ID, inv.AccountID = 0, acc.ID
			if err := tx.Create(&inv).Error; err != nil {
				return fmt.Errorf("restore investment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("ledger: user %d restored snapshot from %s", userID, snap.Created.Format(time.RFC3339))
	return nil
}
