package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitsnap/internal/models"
)

const today = "2024-01-08"

func TestValidateHabits(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		want  ConflictType
	}{
		{
			name:  "unknown frequency tag",
			habit: models.Habit{ID: "1", Name: "A", Frequency: []string{"2"}},
			want:  ConflictInvalidFrequency,
		},
		{
			name:  "invalid reminder time",
			habit: models.Habit{ID: "1", Name: "A", ReminderTime: "25:00"},
			want:  ConflictInvalidReminderTime,
		},
		{
			name:  "invalid start date",
			habit: models.Habit{ID: "1", Name: "A", StartDate: "2024-13-01"},
			want:  ConflictInvalidStartDate,
		},
		{
			name:  "malformed completion key",
			habit: models.Habit{ID: "1", Name: "A", CompletedDays: map[string]string{"Mon Jan 08 2024": "completed"}},
			want:  ConflictInvalidCompletedDay,
		},
		{
			name:  "streak drift",
			habit: models.Habit{ID: "1", Name: "A", CompletedDays: map[string]string{today: "completed"}, Streak: 4},
			want:  ConflictStreakDrift,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(today).ValidateHabits([]models.Habit{tt.habit})
			if result.Count(tt.want) != 1 {
				t.Errorf("expected one %s conflict, got %+v", tt.want, result.Conflicts)
			}
		})
	}
}

func TestValidateHabitsClean(t *testing.T) {
	habits := []models.Habit{
		{ID: "1", Name: "Read", Frequency: []string{"daily"}, ReminderTime: "09:00",
			CompletedDays: map[string]string{"2024-01-07": "completed", today: "completed"}, Streak: 2},
		{ID: "2", Name: "Gym", Frequency: []string{"Mon", "Wed"}, StartDate: "2024-01-01"},
	}

	result := New(today).ValidateHabits(habits)
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}

func TestValidateHabitsDuplicateNames(t *testing.T) {
	habits := []models.Habit{
		{ID: "1", Name: "Read"},
		{ID: "2", Name: "read "},
		{ID: "3", Name: "Gym"},
	}

	result := New(today).ValidateHabits(habits)
	if result.Count(ConflictDuplicateHabitName) != 1 {
		t.Fatalf("expected one duplicate name conflict, got %+v", result.Conflicts)
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictDuplicateHabitName && len(c.HabitIDs) != 2 {
			t.Errorf("HabitIDs = %v, want 2 ids", c.HabitIDs)
		}
	}
}

func TestValidatePhotos(t *testing.T) {
	habits := []models.Habit{{ID: "h1", Name: "Read"}}
	photos := []models.Photo{
		{ID: 1, HabitID: "h1", Date: today, DataURL: "data:,x"},
		{ID: 2, HabitID: "unknown", Date: today, DataURL: "data:,x"},
		{ID: 3, HabitID: "deleted", Date: today, DataURL: "data:,x"},
		{ID: 4, HabitID: "deleted", Date: today, DataURL: "data:,x"},
		{ID: 5, HabitID: "h1", Date: "08/01/2024", DataURL: "data:,x"},
		{ID: 6, HabitID: "h1", Date: today},
	}

	result := New(today).ValidatePhotos(photos, habits)

	if result.Count(ConflictOrphanedPhoto) != 1 {
		t.Errorf("expected one orphaned photo conflict, got %+v", result.Conflicts)
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictOrphanedPhoto && len(c.PhotoIDs) != 2 {
			t.Errorf("orphaned PhotoIDs = %v, want [3 4]", c.PhotoIDs)
		}
	}
	if result.Count(ConflictInvalidPhotoDate) != 1 {
		t.Error("expected an invalid photo date conflict")
	}
	if result.Count(ConflictEmptyPhoto) != 1 {
		t.Error("expected an empty photo conflict")
	}
}

func TestFormatReportMarksFixable(t *testing.T) {
	habits := []models.Habit{{ID: "1", Name: "A", CompletedDays: map[string]string{today: "completed"}, Streak: 9}}

	result := New(today).Validate(habits, nil)
	report := result.FormatReport()
	if !strings.Contains(report, "(fixable)") {
		t.Errorf("report %q should mark streak drift as fixable", report)
	}
}
