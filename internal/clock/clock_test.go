package clock

import (
	"testing"
	"time"
)

func TestEffectiveDate(t *testing.T) {
	now := time.Date(2025, 4, 30, 23, 10, 0, 0, time.UTC)

	cases := []struct {
		offset int
		want   time.Time
	}{
		{0, Date(2025, 4, 30)},
		{1, Date(2025, 5, 1)},
		{-30, Date(2025, 3, 31)},
	}
	for _, tc := range cases {
		if got := EffectiveDate(now, tc.offset); !got.Equal(tc.want) {
			t.Errorf("EffectiveDate(offset=%d) = %s, want %s", tc.offset, got, tc.want)
		}
	}
}

func TestToday_FixedClock(t *testing.T) {
	c := Fixed{T: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	if got := Today(c, 2); !got.Equal(Date(2025, 1, 3)) {
		t.Errorf("Today() = %s, want 2025-01-03", got)
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2025-05-05 is a Monday
	for i := 0; i < 7; i++ {
		d := Date(2025, 5, 5+i)
		if got := WeekdayIndex(d); got != i {
			t.Errorf("WeekdayIndex(%s) = %d, want %d", d.Format("2006-01-02"), got, i)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	if got := StartOfWeek(Date(2025, 5, 11)); !got.Equal(Date(2025, 5, 5)) {
		t.Errorf("StartOfWeek(Sunday) = %s, want 2025-05-05", got)
	}
	if got := StartOfWeek(Date(2025, 5, 5)); !got.Equal(Date(2025, 5, 5)) {
		t.Errorf("StartOfWeek(Monday) = %s, want same day", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		in   time.Time
		want int
	}{
		{Date(2025, 1, 15), 31},
		{Date(2025, 2, 1), 28},
		{Date(2024, 2, 29), 29},
		{Date(2025, 4, 30), 30},
		{Date(2025, 12, 3), 31},
	}
	for _, tc := range cases {
		got := LastDayOfMonth(tc.in)
		if got.Day() != tc.want || got.Month() != tc.in.Month() {
			t.Errorf("LastDayOfMonth(%s) = %s, want day %d", tc.in.Format("2006-01-02"), got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(Date(2025, 5, 5), Date(2025, 5, 19)); got != 14 {
		t.Errorf("DaysBetween = %d, want 14", got)
	}
	if got := DaysBetween(Date(2025, 5, 19), Date(2025, 5, 5)); got != -14 {
		t.Errorf("DaysBetween = %d, want -14", got)
	}
}
