package shared

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOfAnchorsOnSunday(t *testing.T) {
	cases := []struct {
		name  string
		in    time.Time
		start time.Time
	}{
		{"sunday itself", date(2025, time.June, 1), date(2025, time.June, 1)},
		{"mid week", date(2025, time.June, 4), date(2025, time.June, 1)},
		{"saturday", date(2025, time.June, 7), date(2025, time.June, 1)},
		{"with clock time", time.Date(2025, time.June, 4, 18, 30, 0, 0, time.UTC), date(2025, time.June, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := WeekOf(tc.in)
			if !w.Start().Equal(tc.start) {
				t.Fatalf("WeekOf(%s) start = %s, want %s", tc.in, w.Start(), tc.start)
			}
		})
	}
}

func TestWeekDayIndex(t *testing.T) {
	w := WeekOf(date(2025, time.June, 4))
	if got := w.DayIndex(date(2025, time.June, 1)); got != Sunday {
		t.Fatalf("expected Sunday (1), got %d", got)
	}
	if got := w.DayIndex(date(2025, time.June, 7)); got != Saturday {
		t.Fatalf("expected Saturday (7), got %d", got)
	}
	if w.Day(Wednesday) != date(2025, time.June, 4) {
		t.Fatalf("Day(Wednesday) = %s", w.Day(Wednesday))
	}
}

func TestWeekContains(t *testing.T) {
	w := WeekOf(date(2025, time.June, 4))
	if !w.Contains(date(2025, time.June, 1)) || !w.Contains(date(2025, time.June, 7)) {
		t.Fatal("window boundaries should be inclusive")
	}
	if w.Contains(date(2025, time.May, 31)) || w.Contains(date(2025, time.June, 8)) {
		t.Fatal("days outside the window must be excluded")
	}
}

func TestWeekDisplayTruncatesAtAsOf(t *testing.T) {
	w := WeekOf(date(2025, time.June, 4))
	got := w.Display(date(2025, time.June, 4))
	want := "01 Jun 2025 To 04 Jun 2025"
	if got != want {
		t.Fatalf("Display = %q, want %q", got, want)
	}
	if w.StartISO() != "2025-06-01" {
		t.Fatalf("StartISO = %q", w.StartISO())
	}
}
