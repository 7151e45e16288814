package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
)

var frequencyTags = map[string]bool{
	constants.FrequencyDaily: true,
	constants.TagMon:         true,
	constants.TagTue:         true,
	constants.TagWed:         true,
	constants.TagThu:         true,
	constants.TagFri:         true,
	constants.TagSat:         true,
	constants.TagSun:         true,
}

// Habit represents a recurring intention to track
type Habit struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Icon          string            `json:"icon"`
	Color         string            `json:"color"`
	Streak        int               `json:"streak"`
	CompletedDays map[string]string `json:"completedDays"`          // day key -> completion marker
	Frequency     []string          `json:"frequency,omitempty"`    // ["daily"] or weekday tags; empty means every day
	ReminderTime  string            `json:"reminderTime,omitempty"` // HH:MM format
	StartDate     string            `json:"startDate,omitempty"`    // YYYY-MM-DD format
	CreatedAt     time.Time         `json:"createdAt"`
}

// IsFrequencyTag reports whether tag is a recognized frequency value.
func IsFrequencyTag(tag string) bool {
	return frequencyTags[tag]
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	if h.Streak < 0 {
		return fmt.Errorf("streak cannot be negative")
	}

	if h.ReminderTime != "" {
		if _, err := time.Parse(constants.TimeFormat, h.ReminderTime); err != nil {
			return fmt.Errorf("invalid reminder time (expected HH:MM): %w", err)
		}
	}

	if h.StartDate != "" {
		if _, err := time.Parse(constants.DateFormat, h.StartDate); err != nil {
			return fmt.Errorf("invalid start date (expected YYYY-MM-DD): %w", err)
		}
	}

	for _, tag := range h.Frequency {
		if !IsFrequencyTag(tag) {
			return fmt.Errorf("invalid frequency tag %q", tag)
		}
	}

	for day, marker := range h.CompletedDays {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return fmt.Errorf("invalid completed day %q (expected YYYY-MM-DD)", day)
		}
		if marker == "" {
			return fmt.Errorf("completion marker for %s cannot be empty", day)
		}
	}

	return nil
}

// IsEveryDay returns true when the habit has no weekday restriction
func (h *Habit) IsEveryDay() bool {
	if len(h.Frequency) == 0 {
		return true
	}
	for _, tag := range h.Frequency {
		if tag == constants.FrequencyDaily {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can derive an updated habit without
// touching the original's map or slice.
func (h Habit) Clone() Habit {
	c := h
	c.CompletedDays = make(map[string]string, len(h.CompletedDays))
	for k, v := range h.CompletedDays {
		c.CompletedDays[k] = v
	}
	if h.Frequency != nil {
		c.Frequency = append([]string(nil), h.Frequency...)
	}
	return c
}

// FormatFrequency returns a human-readable description of the habit's schedule
func (h *Habit) FormatFrequency() string {
	if h.IsEveryDay() {
		return "Daily"
	}
	return strings.Join(h.Frequency, ", ")
}
