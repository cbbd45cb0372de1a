package shared

import (
	"fmt"
	"time"
)

// Weekday indexes the days of a settlement week. The business week starts on
// Sunday and day numbering is one-based (Sunday=1 .. Saturday=7), matching the
// "DAY n" lines in supplier notifications and the D1..D7 report columns.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// FirstDayOfWeek is the fixed start of the business week.
const FirstDayOfWeek = Sunday

// DaysPerWeek is the number of days in a settlement window.
const DaysPerWeek = 7

// String returns the English day name.
func (d Weekday) String() string {
	names := [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return names[d-1]
}

// ISODate is the wire format for calendar-day lookups. It must never be
// conflated with the human display format.
const ISODate = "2006-01-02"

// DisplayDate is the human-readable date format used in messages.
const DisplayDate = "02 Jan 2006"

// Week is a Sunday-anchored settlement window in a fixed location.
type Week struct {
	start time.Time
}

// WeekOf returns the week containing t: the window anchored at the most recent
// Sunday on or before t, at midnight in t's location.
func WeekOf(t time.Time) Week {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(day.Weekday()) // time.Sunday == 0
	return Week{start: day.AddDate(0, 0, -offset)}
}

// Start returns the Sunday anchor at midnight.
func (w Week) Start() time.Time { return w.start }

// End returns the last day of the window (Saturday) at midnight.
func (w Week) End() time.Time { return w.start.AddDate(0, 0, DaysPerWeek-1) }

// Day returns the calendar day for the given one-based weekday.
func (w Week) Day(d Weekday) time.Time {
	return w.start.AddDate(0, 0, int(d-Sunday))
}

// DayIndex maps a timestamp within the window to its one-based weekday.
func (w Week) DayIndex(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}

// Contains reports whether the calendar day of t falls inside the window.
func (w Week) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.start.Location())
	return !day.Before(w.start) && !day.After(w.End())
}

// StartISO returns the window start in ISO form for storage keys and queries.
func (w Week) StartISO() string { return w.start.Format(ISODate) }

// Display renders the window range for human-facing messages, truncated at asOf
// when the week is still in progress.
func (w Week) Display(asOf time.Time) string {
	end := w.End()
	if asOf.Before(end) {
		end = asOf
	}
	return fmt.Sprintf("%s To %s", w.start.Format(DisplayDate), end.Format(DisplayDate))
}
