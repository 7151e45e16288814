// Package validation reports data problems in stored habits and photos.
// It never modifies anything; repairs go through habits.Service.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitsnap/internal/habits"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName  ConflictType = "duplicate_habit_name"
	ConflictInvalidFrequency    ConflictType = "invalid_frequency"
	ConflictInvalidReminderTime ConflictType = "invalid_reminder_time"
	ConflictInvalidStartDate    ConflictType = "invalid_start_date"
	ConflictInvalidCompletedDay ConflictType = "invalid_completed_day"
	ConflictStreakDrift         ConflictType = "streak_drift"
	ConflictOrphanedPhoto       ConflictType = "orphaned_photo"
	ConflictInvalidPhotoDate    ConflictType = "invalid_photo_date"
	ConflictEmptyPhoto          ConflictType = "empty_photo"
)

// Conflict is one detected problem.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	PhotoIDs    []int64
	// Fixable conflicts can be repaired with `habit repair`.
	Fixable bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts have the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s", conflict.Description)
		if conflict.Fixable {
			b.WriteString(" (fixable)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks habits and photos against today's date.
type Validator struct {
	today string
}

// New creates a Validator that measures streaks as of today (YYYY-MM-DD).
func New(today string) *Validator {
	return &Validator{today: today}
}

// Validate runs the habit and photo checks together.
func (v *Validator) Validate(habitList []models.Habit, photos []models.Photo) ValidationResult {
	result := v.ValidateHabits(habitList)
	result.Conflicts = append(result.Conflicts, v.ValidatePhotos(photos, habitList).Conflicts...)
	return result
}

// ValidateHabits checks names, schedules, completion keys and streaks.
func (v *Validator) ValidateHabits(habitList []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byName := make(map[string][]string)
	for _, h := range habitList {
		name := strings.ToLower(strings.TrimSpace(h.Name))
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], h.ID)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habitList {
		for _, tag := range h.Frequency {
			if !models.IsFrequencyTag(tag) {
				result.add(Conflict{
					Type:        ConflictInvalidFrequency,
					Description: fmt.Sprintf("Habit %q has unknown frequency tag %q", h.Name, tag),
					HabitIDs:    []string{h.ID},
				})
			}
		}

		if h.ReminderTime != "" && !utils.ValidateTimeFormat(h.ReminderTime) {
			result.add(Conflict{
				Type:        ConflictInvalidReminderTime,
				Description: fmt.Sprintf("Habit %q has invalid reminder time: %s", h.Name, h.ReminderTime),
				HabitIDs:    []string{h.ID},
			})
		}

		if h.StartDate != "" && !utils.IsDayKey(h.StartDate) {
			result.add(Conflict{
				Type:        ConflictInvalidStartDate,
				Description: fmt.Sprintf("Habit %q has invalid start date: %s", h.Name, h.StartDate),
				HabitIDs:    []string{h.ID},
			})
		}

		var badDays []string
		for day := range h.CompletedDays {
			if !utils.IsDayKey(day) {
				badDays = append(badDays, day)
			}
		}
		if len(badDays) > 0 {
			sort.Strings(badDays)
			result.add(Conflict{
				Type:        ConflictInvalidCompletedDay,
				Description: fmt.Sprintf("Habit %q has malformed completion keys: %s", h.Name, strings.Join(badDays, ", ")),
				HabitIDs:    []string{h.ID},
			})
		}

		if want := habits.RecomputeStreak(h, v.today); want != h.Streak {
			result.add(Conflict{
				Type:        ConflictStreakDrift,
				Description: fmt.Sprintf("Habit %q has cached streak %d but history gives %d", h.Name, h.Streak, want),
				HabitIDs:    []string{h.ID},
				Fixable:     true,
			})
		}
	}

	return result
}

// ValidatePhotos checks photo dates, payloads and habit references.
// Photos tagged as unattributed are not orphans.
func (v *Validator) ValidatePhotos(photos []models.Photo, habitList []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(habitList))
	for _, h := range habitList {
		known[h.ID] = true
	}

	var orphans []int64
	for _, p := range photos {
		if !utils.IsDayKey(p.Date) {
			result.add(Conflict{
				Type:        ConflictInvalidPhotoDate,
				Description: fmt.Sprintf("Photo %d has invalid date: %q", p.ID, p.Date),
				PhotoIDs:    []int64{p.ID},
			})
		}
		if p.DataURL == "" {
			result.add(Conflict{
				Type:        ConflictEmptyPhoto,
				Description: fmt.Sprintf("Photo %d has no image data", p.ID),
				PhotoIDs:    []int64{p.ID},
			})
		}
		if p.IsAttributed() && !known[p.HabitID] {
			orphans = append(orphans, p.ID)
		}
	}

	if len(orphans) > 0 {
		result.add(Conflict{
			Type:        ConflictOrphanedPhoto,
			Description: fmt.Sprintf("%d photo(s) reference deleted habits (IDs: %v)", len(orphans), orphans),
			PhotoIDs:    orphans,
		})
	}
	return result
}

// Check validates habits and photos as of today.
func Check(habitList []models.Habit, photos []models.Photo, today string) ValidationResult {
	return New(today).Validate(habitList, photos)
}
