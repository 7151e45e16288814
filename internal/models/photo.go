package models

import (
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
)

// Photo is a timestamped image attached to a day and optionally to a habit
type Photo struct {
	ID        int64     `json:"id"`
	HabitID   string    `json:"habitId"` // Habit.ID or "unknown"
	Date      string    `json:"date"`    // YYYY-MM-DD format
	DataURL   string    `json:"dataUrl"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAttributed returns true if the photo is tagged with a real habit
func (p *Photo) IsAttributed() bool {
	return p.HabitID != "" && p.HabitID != constants.UnknownHabitID
}
