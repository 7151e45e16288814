// Package forms holds the huh forms shared by the TUI and the CLI.
package forms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// HabitFormModel holds the values edited by the habit form
type HabitFormModel struct {
	Name         string
	Icon         string
	Color        string
	Days         []string
	ReminderTime string
	StartDate    string
}

var colorOptions = []string{"blue", "green", "orange", "pink", "purple", "red", "teal", "yellow"}

func weekdayOptions() []huh.Option[string] {
	tags := []string{
		constants.TagMon, constants.TagTue, constants.TagWed, constants.TagThu,
		constants.TagFri, constants.TagSat, constants.TagSun,
	}
	opts := make([]huh.Option[string], len(tags))
	for i, tag := range tags {
		opts[i] = huh.NewOption(tag, tag)
	}
	return opts
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	return nil
}

func validateReminder(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !utils.ValidateTimeFormat(s) {
		return fmt.Errorf("reminder time must be HH:MM")
	}
	return nil
}

func validateStartDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !utils.IsDayKey(s) {
		return fmt.Errorf("start date must be YYYY-MM-DD")
	}
	return nil
}

// NewHabitForm creates a form for adding or editing a habit. Leaving every
// weekday unselected means the habit is due every day.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	colors := make([]huh.Option[string], 0, len(colorOptions)+1)
	if fm.Color != "" && !slices.Contains(colorOptions, fm.Color) {
		colors = append(colors, huh.NewOption(fm.Color, fm.Color))
	}
	for _, c := range colorOptions {
		colors = append(colors, huh.NewOption(c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Icon").
				Description("An emoji shown next to the name").
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Days").
				Description("Leave empty for every day").
				Options(weekdayOptions()...).
				Value(&fm.Days),
			huh.NewInput().
				Title("Reminder (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(validateReminder),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validateStartDate),
		),
	).WithTheme(huh.ThemeDracula())
}

// FromHabit fills a form model from an existing habit.
func FromHabit(h models.Habit) *HabitFormModel {
	fm := &HabitFormModel{
		Name:         h.Name,
		Icon:         h.Icon,
		Color:        h.Color,
		ReminderTime: h.ReminderTime,
		StartDate:    h.StartDate,
	}
	if !h.IsEveryDay() {
		fm.Days = append([]string(nil), h.Frequency...)
	}
	return fm
}

// ApplyTo copies the form values onto h. The completion history and the
// streak are left untouched.
func (fm *HabitFormModel) ApplyTo(h models.Habit) (models.Habit, error) {
	for _, validate := range []func() error{
		func() error { return validateName(fm.Name) },
		func() error { return validateReminder(fm.ReminderTime) },
		func() error { return validateStartDate(fm.StartDate) },
	} {
		if err := validate(); err != nil {
			return h, err
		}
	}

	freq, err := utils.NormalizeFrequency(fm.Days)
	if err != nil {
		return h, err
	}

	h.Name = strings.TrimSpace(fm.Name)
	h.Icon = strings.TrimSpace(fm.Icon)
	h.Color = fm.Color
	h.Frequency = freq
	h.ReminderTime = strings.TrimSpace(fm.ReminderTime)
	h.StartDate = strings.TrimSpace(fm.StartDate)
	return h, nil
}
