package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
)

var weekdayTags = [...]string{
	time.Sunday:    constants.TagSun,
	time.Monday:    constants.TagMon,
	time.Tuesday:   constants.TagTue,
	time.Wednesday: constants.TagWed,
	time.Thursday:  constants.TagThu,
	time.Friday:    constants.TagFri,
	time.Saturday:  constants.TagSat,
}

// ToDayKey returns the YYYY-MM-DD calendar date of t in loc.
// A nil loc means the system local timezone.
// All stored dates must be produced by this function so that string equality
// matches calendar equality.
func ToDayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDayKey parses a day key as midnight in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// IsDayKey reports whether key is a well-formed day key.
func IsDayKey(key string) bool {
	t, err := time.Parse(constants.DateFormat, key)
	return err == nil && t.Format(constants.DateFormat) == key
}

// WeekdayTag returns the Mon..Sun tag for a day key.
func WeekdayTag(key string) (string, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return weekdayTags[t.Weekday()], nil
}

// TagForWeekday returns the frequency tag for a time.Weekday.
func TagForWeekday(wd time.Weekday) string {
	return weekdayTags[wd]
}

// AddDays shifts a day key by n calendar days. Arithmetic is done in UTC so
// DST transitions never skip or repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}
