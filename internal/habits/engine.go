// Package habits derives completion state from stored habits and applies
// mutations through a storage.Provider.
package habits

import (
	"time"

	"github.com/julianstephens/habitsnap/internal/activity"
	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// IsCompleted reports whether dayKey is present in the habit's completion map.
func IsCompleted(habit models.Habit, dayKey string) bool {
	_, ok := habit.CompletedDays[dayKey]
	return ok
}

// ToggleCompletion flips the completion of dayKey and adjusts the cached
// streak by one, never below zero. The input habit is not modified.
//
// The streak change is not checked against the run of consecutive days;
// use RecomputeStreak to repair a cached value that drifted.
func ToggleCompletion(habit models.Habit, dayKey string) models.Habit {
	updated := habit.Clone()
	if IsCompleted(habit, dayKey) {
		delete(updated.CompletedDays, dayKey)
		updated.Streak = max(updated.Streak-1, 0)
		return updated
	}
	updated.CompletedDays[dayKey] = constants.CompletedMarker
	updated.Streak++
	return updated
}

// RecordPhotoCompletion marks dayKey completed with marker unless it already
// is. The second return value is false when the habit was left unchanged,
// so a second photo on the same day never bumps the streak twice.
func RecordPhotoCompletion(habit models.Habit, dayKey, marker string) (models.Habit, bool) {
	if IsCompleted(habit, dayKey) {
		return habit, false
	}
	if marker == "" {
		marker = constants.CompletedMarker
	}
	updated := habit.Clone()
	updated.CompletedDays[dayKey] = marker
	updated.Streak++
	return updated, true
}

// FilterDue returns the habits scheduled on dayKey, in input order.
func FilterDue(habits []models.Habit, dayKey string) []models.Habit {
	due := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if utils.IsDue(h, dayKey) {
			due = append(due, h)
		}
	}
	return due
}

// FilterDueToday applies FilterDue to the calendar day of now in loc.
func FilterDueToday(habits []models.Habit, now time.Time, loc *time.Location) []models.Habit {
	return FilterDue(habits, utils.ToDayKey(now, loc))
}

// ComputeCompletionRate returns the rounded percentage of dueHabits
// completed on dayKey, or 0 when nothing is due.
func ComputeCompletionRate(dueHabits []models.Habit, dayKey string) int {
	return activity.Percent(CountCompleted(dueHabits, dayKey), len(dueHabits))
}

// CountCompleted returns how many habits are completed on dayKey.
func CountCompleted(habits []models.Habit, dayKey string) int {
	n := 0
	for _, h := range habits {
		if IsCompleted(h, dayKey) {
			n++
		}
	}
	return n
}
