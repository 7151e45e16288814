package habits

import (
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// RecomputeStreak derives the current streak from the completion map: the
// number of consecutive due days completed, walking back from today.
//
// An unfinished today does not break the run, days the habit is not due are
// skipped, and completions on non-due days are ignored.
func RecomputeStreak(habit models.Habit, today string) int {
	if !utils.IsDayKey(today) {
		return 0
	}

	earliest := earliestDay(habit)
	if earliest == "" {
		return 0
	}

	cursor := today
	if utils.IsDue(habit, today) && !IsCompleted(habit, today) {
		cursor = mustAddDays(today, -1)
	}

	streak := 0
	for cursor >= earliest {
		if utils.IsDue(habit, cursor) {
			if !IsCompleted(habit, cursor) {
				break
			}
			streak++
		}
		cursor = mustAddDays(cursor, -1)
	}
	return streak
}

// earliestDay is the lower bound of the backwards walk: the first valid
// completion key or the start date, whichever is earlier.
func earliestDay(habit models.Habit) string {
	earliest := ""
	for day := range habit.CompletedDays {
		if !utils.IsDayKey(day) {
			continue
		}
		if earliest == "" || day < earliest {
			earliest = day
		}
	}
	if earliest == "" {
		return ""
	}
	if utils.IsDayKey(habit.StartDate) && habit.StartDate < earliest {
		return habit.StartDate
	}
	return earliest
}

// mustAddDays is only called with keys already checked by IsDayKey.
func mustAddDays(day string, n int) string {
	next, err := utils.AddDays(day, n)
	if err != nil {
		panic(err)
	}
	return next
}

// HasStreakDrift reports whether the cached streak differs from the
// recomputed one.
func HasStreakDrift(habit models.Habit, today string) bool {
	return habit.Streak != RecomputeStreak(habit, today)
}
