// Package period computes the reporting windows used by the request history and
// aggregation views: Monday-start weeks and calendar months.
package period

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for reference dates and delivery dates
const DateLayout = "2006-01-02"

// Kind selects the window granularity
type Kind string

const (
	Week  Kind = "week"
	Month Kind = "month"
)

// ParseKind maps a query value to a Kind, defaulting to Week
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Week):
		return Week, nil
	case string(Month):
		return Month, nil
	}
	return "", fmt.Errorf("unknown period %q: must be week or month", s)
}

// Range is a closed time window [Start, End]
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the closed range
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// WeekInfo describes the Monday-start week containing a reference date
type WeekInfo struct {
	StartOfWeek time.Time  `json:"start_of_week"`
	EndOfWeek   time.Time  `json:"end_of_week"`
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	WeekOfMonth int        `json:"week_of_month"`
}

// Range returns the week as a closed window
func (w WeekInfo) Range() Range {
	return Range{Start: w.StartOfWeek, End: w.EndOfWeek}
}

// Label renders e.g. "2024-01 W2 (01/08 - 01/14)"
func (w WeekInfo) Label() string {
	return fmt.Sprintf("%04d-%02d W%d (%s - %s)",
		w.Year, int(w.Month), w.WeekOfMonth,
		w.StartOfWeek.Format("01/02"), w.EndOfWeek.Format("01/02"))
}

// Key is a compact identifier suitable for file names, e.g. "2024-01-W2"
func (w WeekInfo) Key() string {
	return fmt.Sprintf("%04d-%02d-W%d", w.Year, int(w.Month), w.WeekOfMonth)
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// daysSinceMonday maps Monday to 0 ... Sunday to 6
func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// GetWeekInfo returns the Monday-start week containing ref. The label fields
// (year, month, week number) belong to the week's Monday, not to ref.
func GetWeekInfo(ref time.Time) WeekInfo {
	day := StartOfDay(ref)
	monday := day.AddDate(0, 0, -daysSinceMonday(day))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))

	return WeekInfo{
		StartOfWeek: monday,
		EndOfWeek:   sunday,
		Year:        monday.Year(),
		Month:       monday.Month(),
		WeekOfMonth: WeekOfMonth(monday),
	}
}

// WeekOfMonth numbers the week containing day within day's month. A partial
// first week (the 1st is not a Monday) counts as week 1.
func WeekOfMonth(day time.Time) int {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	offset := daysSinceMonday(first)
	return (day.Day()+offset-1)/7 + 1
}

// MonthInfo describes a calendar month
type MonthInfo struct {
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// GetMonthInfo returns [1st 00:00:00, last day 23:59:59.999] for ref's month
func GetMonthInfo(ref time.Time) MonthInfo {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := EndOfDay(start.AddDate(0, 1, -1))
	return MonthInfo{Start: start, End: end, Year: start.Year(), Month: start.Month()}
}

// Range returns the month as a closed window
func (m MonthInfo) Range() Range {
	return Range{Start: m.Start, End: m.End}
}

// Label renders e.g. "2024-01"
func (m MonthInfo) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// AddWeeks moves ref by n whole weeks
func AddWeeks(ref time.Time, n int) time.Time {
	return ref.AddDate(0, 0, 7*n)
}

// AddMonths moves ref by n whole months. The result is anchored on the 1st so
// that e.g. Jan 31 + 1 month lands in February rather than overflowing into March.
func AddMonths(ref time.Time, n int) time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return first.AddDate(0, n, 0)
}

// Window is a resolved reporting period with navigation anchors
type Window struct {
	Kind  Kind   `json:"kind"`
	Range Range  `json:"range"`
	Label string `json:"label"`
	Key   string `json:"key"`
	Prev  string `json:"prev"` // reference date of the previous window, YYYY-MM-DD
	Next  string `json:"next"` // reference date of the next window, YYYY-MM-DD
}

// Resolve builds the window of the given kind containing ref
func Resolve(kind Kind, ref time.Time) Window {
	if kind == Month {
		m := GetMonthInfo(ref)
		return Window{
			Kind:  Month,
			Range: m.Range(),
			Label: m.Label(),
			Key:   m.Label(),
			Prev:  AddMonths(ref, -1).Format(DateLayout),
			Next:  AddMonths(ref, 1).Format(DateLayout),
		}
	}

	w := GetWeekInfo(ref)
	return Window{
		Kind:  Week,
		Range: w.Range(),
		Label: w.Label(),
		Key:   w.Key(),
		Prev:  AddWeeks(w.StartOfWeek, -1).Format(DateLayout),
		Next:  AddWeeks(w.StartOfWeek, 1).Format(DateLayout),
	}
}

// ParseDate parses a YYYY-MM-DD reference date in loc. An empty string means today.
func ParseDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now.In(loc), nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
