package budget

import (
	"fmt"
	"sort"
	"time"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
)

// indexed by clock.WeekdayIndex
var rruleWeekdays = [7]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// expenseRule builds the RRULE a recurring expense posts on. It mirrors
// PeriodKey: every day, every Monday, or the last day of each month.
func expenseRule(freq models.ExpenseFrequency, dtstart time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{Dtstart: dtstart}
	switch freq {
	case models.FrequencyDaily:
		opt.Freq = rrule.DAILY
	case models.FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO}
	case models.FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{-1}
	default:
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}
	return rrule.NewRRule(opt)
}

// NextPayday returns the first date on or after today that will credit wages.
func (m *Manager) NextPayday(today time.Time) (time.Time, bool) {
	a := m.acc
	if a.PayDayOfWeek == nil || *a.PayDayOfWeek < 0 || *a.PayDayOfWeek > 6 {
		return time.Time{}, false
	}
	earliest := clock.Day(today)
	if a.LastPayCredit != nil {
		if next := clock.Day(*a.LastPayCredit).AddDate(0, 0, a.PayFrequency.CycleDays()); next.After(earliest) {
			earliest = next
		}
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[*a.PayDayOfWeek]},
		Dtstart:   earliest,
		Count:     1,
	})
	if err != nil {
		return time.Time{}, false
	}
	all := r.All()
	if len(all) == 0 {
		return time.Time{}, false
	}
	return all[0], true
}

// UpcomingPosting is a scheduled recurring charge.
type UpcomingPosting struct {
	ExpenseID uint            `json:"expense_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

// UpcomingPostings lists recurring charges in (today, today+days], by date.
func (m *Manager) UpcomingPostings(today time.Time, days int) []UpcomingPosting {
	if days <= 0 {
		return nil
	}
	from := clock.Day(today).AddDate(0, 0, 1)
	to := clock.Day(today).AddDate(0, 0, days)

	var out []UpcomingPosting
	for _, e := range m.acc.RecurringExpenses {
		r, err := expenseRule(e.Frequency, clock.StartOfMonth(from))
		if err != nil {
			continue
		}
		for _, d := range r.Between(from, to, true) {
			out = append(out, UpcomingPosting{
				ExpenseID: e.ID,
				Name:      e.Name,
				Amount:    e.Amount,
				Date:      d.Format(dateLayout),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
