package utils

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
)

// IsDue reports whether habit is scheduled on dayKey: on or after its start
// date, and either every day or on one of its weekday tags.
// Malformed day keys are never due.
func IsDue(habit models.Habit, dayKey string) bool {
	if !IsDayKey(dayKey) {
		return false
	}
	// Day keys are zero-padded so lexical order is calendar order.
	if habit.StartDate != "" && dayKey < habit.StartDate {
		return false
	}
	if habit.IsEveryDay() {
		return true
	}

	tag, err := WeekdayTag(dayKey)
	if err != nil {
		return false
	}
	for _, f := range habit.Frequency {
		if f == tag {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma separated list of weekday names such as
// "mon,wed,Fri" into canonical tags in Monday-first order.
func ParseWeekdays(s string) ([]string, error) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, ok := canonicalTag(part)
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q (expected Mon..Sun)", part)
		}
		seen[tag] = true
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return orderedTags(seen), nil
}

// NormalizeFrequency collapses a frequency list into its canonical form:
// ["daily"] when any entry is daily or every weekday is present, otherwise
// the weekday tags in Monday-first order without duplicates.
func NormalizeFrequency(frequency []string) ([]string, error) {
	if len(frequency) == 0 {
		return []string{constants.FrequencyDaily}, nil
	}
	seen := make(map[string]bool)
	for _, f := range frequency {
		if strings.EqualFold(f, constants.FrequencyDaily) {
			return []string{constants.FrequencyDaily}, nil
		}
		tag, ok := canonicalTag(f)
		if !ok {
			return nil, fmt.Errorf("invalid frequency tag %q", f)
		}
		seen[tag] = true
	}
	if len(seen) == 7 {
		return []string{constants.FrequencyDaily}, nil
	}
	return orderedTags(seen), nil
}

func canonicalTag(s string) (string, bool) {
	if len(s) < 3 {
		return "", false
	}
	prefix := strings.ToLower(s[:3])
	for _, tag := range weekdayTags {
		if strings.ToLower(tag) == prefix {
			full := strings.ToLower(s)
			// Accept "Mon" and "monday" but not "monkey".
			if len(full) == 3 || strings.HasPrefix(fullDayNames[tag], full) {
				return tag, true
			}
		}
	}
	return "", false
}

var fullDayNames = map[string]string{
	constants.TagMon: "monday",
	constants.TagTue: "tuesday",
	constants.TagWed: "wednesday",
	constants.TagThu: "thursday",
	constants.TagFri: "friday",
	constants.TagSat: "saturday",
	constants.TagSun: "sunday",
}

func orderedTags(seen map[string]bool) []string {
	order := []string{
		constants.TagMon, constants.TagTue, constants.TagWed, constants.TagThu,
		constants.TagFri, constants.TagSat, constants.TagSun,
	}
	tags := make([]string, 0, len(seen))
	for _, tag := range order {
		if seen[tag] {
			tags = append(tags, tag)
		}
	}
	return tags
}
