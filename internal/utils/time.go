package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
)

// LoadLocation resolves a timezone setting. "" and "Local" mean the system
// timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone reports whether LoadLocation accepts timezone.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ValidateTimeFormat reports whether s is a reminder time (HH:MM, 24h).
func ValidateTimeFormat(s string) bool {
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

// CombineDateAndTime returns the instant a reminder time falls on for a day
// key, in loc. On DST transitions the result follows time.Date.
func CombineDateAndTime(dayKey, hhmm string, loc *time.Location) (time.Time, error) {
	day, err := time.Parse(constants.DateFormat, dayKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	clock, err := time.Parse(constants.TimeFormat, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
