package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestGetWeekInfo_Wednesday(t *testing.T) {
	info := GetWeekInfo(date(2024, time.January, 10))

	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), info.StartOfWeek)
	assert.Equal(t, time.Date(2024, time.January, 14, 23, 59, 59, 999_000_000, time.UTC), info.EndOfWeek)
	assert.Equal(t, time.Monday, info.StartOfWeek.Weekday())
	assert.Equal(t, time.Sunday, info.EndOfWeek.Weekday())
	assert.Equal(t, 2, info.WeekOfMonth)
}

func TestGetWeekInfo_EdgesOfWeek(t *testing.T) {
	monday := GetWeekInfo(time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC))
	sunday := GetWeekInfo(time.Date(2024, time.January, 14, 23, 59, 0, 0, time.UTC))

	assert.Equal(t, monday.StartOfWeek, sunday.StartOfWeek)
	assert.Equal(t, monday.EndOfWeek, sunday.EndOfWeek)
}

func TestGetWeekInfo_LabelsFollowMonday(t *testing.T) {
	tests := []struct {
		name  string
		ref   time.Time
		year  int
		month time.Month
		week  int
	}{
		{"first of month is monday", date(2024, time.January, 1), 2024, time.January, 1},
		{"month end week", date(2024, time.January, 31), 2024, time.January, 5},
		{"partial first week counts", date(2024, time.February, 6), 2024, time.February, 2},
		{"thursday first belongs to previous month", date(2024, time.February, 1), 2024, time.January, 5},
		{"leap day", date(2024, time.February, 29), 2024, time.February, 5},
		{"non-leap february end", date(2023, time.February, 28), 2023, time.February, 5},
		{"march after leap february", date(2024, time.March, 4), 2024, time.March, 2},
		{"new year week belongs to december", date(2025, time.January, 1), 2024, time.December, 6},
		{"first full week of new year", date(2025, time.January, 6), 2025, time.January, 2},
		{"sunday first of month", date(2024, time.September, 1), 2024, time.August, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetWeekInfo(tt.ref)
			assert.Equal(t, tt.year, info.Year)
			assert.Equal(t, tt.month, info.Month)
			assert.Equal(t, tt.week, info.WeekOfMonth)
			assert.Equal(t, time.Monday, info.StartOfWeek.Weekday())
			assert.True(t, info.Range().Contains(tt.ref))
		})
	}
}

func TestWeekOfMonth(t *testing.T) {
	// May 2024 starts on a Wednesday.
	assert.Equal(t, 1, WeekOfMonth(date(2024, time.May, 1)))
	assert.Equal(t, 1, WeekOfMonth(date(2024, time.May, 5)))
	assert.Equal(t, 2, WeekOfMonth(date(2024, time.May, 6)))
	assert.Equal(t, 5, WeekOfMonth(date(2024, time.May, 27)))
	// April 2024 starts on a Monday.
	assert.Equal(t, 1, WeekOfMonth(date(2024, time.April, 7)))
	assert.Equal(t, 2, WeekOfMonth(date(2024, time.April, 8)))
	assert.Equal(t, 5, WeekOfMonth(date(2024, time.April, 29)))
}

func TestGetMonthInfo(t *testing.T) {
	tests := []struct {
		ref     time.Time
		lastDay int
	}{
		{date(2024, time.February, 14), 29},
		{date(2023, time.February, 14), 28},
		{date(2024, time.December, 31), 31},
		{date(2024, time.April, 1), 30},
	}

	for _, tt := range tests {
		m := GetMonthInfo(tt.ref)
		assert.Equal(t, 1, m.Start.Day())
		assert.Equal(t, 0, m.Start.Hour())
		assert.Equal(t, tt.lastDay, m.End.Day())
		assert.Equal(t, tt.ref.Month(), m.End.Month())
		assert.Equal(t, 999_000_000, m.End.Nanosecond())
	}
}

func TestAddMonths_DoesNotOverflow(t *testing.T) {
	next := AddMonths(date(2024, time.January, 31), 1)
	assert.Equal(t, time.February, next.Month())

	prev := AddMonths(date(2024, time.March, 31), -1)
	assert.Equal(t, time.February, prev.Month())

	wrap := AddMonths(date(2024, time.December, 15), 1)
	assert.Equal(t, 2025, wrap.Year())
	assert.Equal(t, time.January, wrap.Month())
}

func TestResolve_Navigation(t *testing.T) {
	w := Resolve(Week, date(2024, time.February, 1))
	assert.Equal(t, "2024-01-W5", w.Key)
	assert.Equal(t, "2024-01 W5 (01/29 - 02/04)", w.Label)
	assert.Equal(t, "2024-01-22", w.Prev)
	assert.Equal(t, "2024-02-05", w.Next)

	m := Resolve(Month, date(2024, time.January, 31))
	assert.Equal(t, "2024-01", m.Label)
	assert.Equal(t, "2023-12-01", m.Prev)
	assert.Equal(t, "2024-02-01", m.Next)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Week, k)

	k, err = ParseKind("MONTH")
	require.NoError(t, err)
	assert.Equal(t, Month, k)

	_, err = ParseKind("year")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

	got, err := ParseDate("", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = ParseDate("2024-01-10", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Day())

	_, err = ParseDate("10/01/2024", time.UTC, now)
	assert.Error(t, err)
}
