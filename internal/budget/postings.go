package budget

import (
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RecurringLabel is the display label of a recurring posting.
func RecurringLabel(name string) string { return "Recurring: " + name }

// PurchaseLabel is the display label of a goal purchase.
func PurchaseLabel(item string) string { return "Purchase: " + item }

// PeriodKey identifies the posting period of a frequency on a given day and
// reports whether a posting is due that day at all.
//
//	daily   due every day,             key D<date>
//	weekly  due on Mondays,            key W<monday>   (covers Monday..Sunday)
//	monthly due on the last month day, key M<yyyy-mm>  (covers the whole month)
func PeriodKey(freq models.ExpenseFrequency, today time.Time) (string, bool) {
	today = clock.Day(today)
	switch freq {
	case models.FrequencyDaily:
		return "D" + today.Format(dateLayout), true
	case models.FrequencyWeekly:
		if clock.WeekdayIndex(today) != 0 {
			return "", false
		}
		return "W" + today.Format(dateLayout), true
	case models.FrequencyMonthly:
		if !today.Equal(clock.LastDayOfMonth(today)) {
			return "", false
		}
		return "M" + today.Format("2006-01"), true
	}
	return "", false
}

// Posting is a recurring expense that should become a spending row today.
type Posting struct {
	ExpenseID uint
	Name      string
	Amount    decimal.Decimal
	PeriodKey string
	Date      time.Time
}

// Spending builds the row to persist for p.
func (p Posting) Spending(accountID uint) models.Spending {
	expenseID := p.ExpenseID
	key := p.PeriodKey
	return models.Spending{
		AccountID:          accountID,
		Item:               RecurringLabel(p.Name),
		Amount:             p.Amount,
		Date:               p.Date,
		Kind:               models.SpendingRecurring,
		RecurringExpenseID: &expenseID,
		PeriodKey:          &key,
	}
}

type postingID struct {
	expenseID uint
	key       string
}

// DuePostings lists recurring expenses due today that have not been posted for
// their current period. Calling it again after the postings are stored yields
// nothing, which makes the poster idempotent.
func DuePostings(acc *models.Account, today time.Time) []Posting {
	today = clock.Day(today)

	posted := make(map[postingID]bool)
	for _, s := range acc.Spendings {
		if s.RecurringExpenseID != nil && s.PeriodKey != nil {
			posted[postingID{*s.RecurringExpenseID, *s.PeriodKey}] = true
		}
	}

	var out []Posting
	for _, e := range acc.RecurringExpenses {
		key, due := PeriodKey(e.Frequency, today)
		if !due {
			continue
		}
		id := postingID{e.ID, key}
		if posted[id] {
			continue
		}
		posted[id] = true
		out = append(out, Posting{
			ExpenseID: e.ID,
			Name:      e.Name,
			Amount:    e.Amount,
			PeriodKey: key,
			Date:      today,
		})
	}
	return out
}
