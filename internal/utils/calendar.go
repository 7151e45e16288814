package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
)

// MonthGrid is the Monday-first layout of a calendar month.
type MonthGrid struct {
	Year          int
	Month         time.Month
	LeadingBlanks int      // empty cells before the 1st
	Days          []string // day keys in order
}

// Cells returns the grid as a flat slice, with "" for each leading blank.
func (g MonthGrid) Cells() []string {
	cells := make([]string, 0, g.LeadingBlanks+len(g.Days))
	for i := 0; i < g.LeadingBlanks; i++ {
		cells = append(cells, "")
	}
	return append(cells, g.Days...)
}

// DaysInMonth returns every day key of the month in order.
func DaysInMonth(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]string, 0, n)
	for d := 0; d < n; d++ {
		days = append(days, first.AddDate(0, 0, d).Format(constants.DateFormat))
	}
	return days
}

// MondayOffset returns the column of wd in a Monday-first week (Mon=0 .. Sun=6).
func MondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// BuildMonthGrid lays out a month so the 1st lands under its weekday column
// in a Monday-first week.
func BuildMonthGrid(year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthGrid{
		Year:          year,
		Month:         month,
		LeadingBlanks: MondayOffset(first.Weekday()),
		Days:          DaysInMonth(year, month),
	}
}

// CanShowMonth reports whether the given month is not after the month of now.
func CanShowMonth(year int, month time.Month, now time.Time, loc *time.Location) bool {
	current := ToDayKey(now, loc)[:7]
	return fmt.Sprintf("%04d-%02d", year, int(month)) <= current
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// ShiftMonth moves (year, month) by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
