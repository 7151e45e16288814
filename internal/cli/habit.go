package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/habits"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/tui/forms"
	"github.com/julianstephens/habitsnap/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit. Completion history is kept."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit. Its photos are kept."`
	Done   HabitDoneCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Today  HabitTodayCmd  `cmd:"" help:"Show the habits due today."`
	Log    HabitLogCmd    `cmd:"" help:"Show habit log (ASCII history)."`
	Repair HabitRepairCmd `cmd:"" help:"Recompute cached streaks from completion history."`
}

// HabitFlags are the attributes set when adding a habit
type HabitFlags struct {
	Icon   string `help:"Emoji shown next to the name."`
	Color  string `help:"Display color."`
	Days   string `help:"Comma-separated weekdays the habit is due (e.g. Mon,Wed,Fri)."`
	Daily  bool   `help:"Due every day (the default)."`
	Remind string `help:"Reminder time in HH:MM format."`
	Start  string `help:"First day the habit is tracked (YYYY-MM-DD)."`
}

func (f HabitFlags) days() ([]string, error) {
	if f.Daily || f.Days == "" {
		return []string{constants.FrequencyDaily}, nil
	}
	return utils.ParseWeekdays(f.Days)
}

type HabitAddCmd struct {
	Name       string `arg:"" optional:"" help:"Habit name."`
	HabitFlags `embed:""`
	Interactive bool `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	days, err := c.days()
	if err != nil {
		return err
	}
	fm := &forms.HabitFormModel{
		Name:         c.Name,
		Icon:         c.Icon,
		Color:        c.Color,
		ReminderTime: c.Remind,
		StartDate:    c.Start,
	}
	if days[0] != constants.FrequencyDaily {
		fm.Days = days
	}

	if c.Interactive {
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return fmt.Errorf("habit form: %w", err)
		}
	}

	habit, err := fm.ApplyTo(models.Habit{})
	if err != nil {
		return err
	}

	created, err := svc.CreateHabit(habit)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", created.Name, created.ID)
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include habits whose start date is in the future."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habitList, err := svc.ListHabits()
	if err != nil {
		return err
	}

	today := svc.Today()
	shown := 0
	for _, h := range habitList {
		upcoming := h.StartDate != "" && h.StartDate > today
		if upcoming && !c.All {
			continue
		}
		if shown == 0 {
			ctx.Printf("%-36s  %-20s  %-14s  %6s  %s\n", "ID", "NAME", "DAYS", "STREAK", "REMINDER")
		}
		name := h.Name
		if h.Icon != "" {
			name = h.Icon + " " + h.Name
		}
		reminder := h.ReminderTime
		if upcoming {
			reminder += " (starts " + h.StartDate + ")"
		}
		ctx.Printf("%-36s  %-20s  %-14s  %6d  %s\n", h.ID, name, h.FormatFrequency(), h.Streak, reminder)
		shown++
	}

	if shown == 0 {
		ctx.Println("No habits found.")
	}
	return nil
}

type HabitEditCmd struct {
	Habit  string  `arg:"" help:"Habit id or name."`
	Name   *string `help:"New name."`
	Icon   *string `help:"Emoji shown next to the name."`
	Color  *string `help:"Display color."`
	Days   *string `help:"Comma-separated weekdays the habit is due."`
	Daily  bool    `help:"Due every day."`
	Remind *string `help:"Reminder time in HH:MM format; empty clears it."`
	Start  *string `help:"First day the habit is tracked; empty clears it."`

	Interactive bool `short:"i" help:"Edit the habit with a form."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habit, err := ResolveHabit(svc, c.Habit)
	if err != nil {
		return err
	}

	fm := forms.FromHabit(habit)
	if c.Name != nil {
		fm.Name = *c.Name
	}
	if c.Icon != nil {
		fm.Icon = *c.Icon
	}
	if c.Color != nil {
		fm.Color = *c.Color
	}
	if c.Days != nil {
		days, err := utils.ParseWeekdays(*c.Days)
		if err != nil {
			return err
		}
		fm.Days = days
	}
	if c.Daily {
		fm.Days = nil
	}
	if c.Remind != nil {
		fm.ReminderTime = *c.Remind
	}
	if c.Start != nil {
		fm.StartDate = *c.Start
	}

	if c.Interactive {
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return fmt.Errorf("habit form: %w", err)
		}
	}

	updated, err := fm.ApplyTo(habit)
	if err != nil {
		return err
	}
	// nil keeps whatever history is stored now
	updated.CompletedDays = nil

	saved, err := svc.SaveHabit(updated)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s (%s)\n", saved.Name, saved.FormatFrequency())
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habit, err := ResolveHabit(svc, c.Habit)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := svc.DeleteHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day to toggle: YYYY-MM-DD, today or yesterday." default:"today"`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habit, err := ResolveHabit(svc, c.Habit)
	if err != nil {
		return err
	}
	day, err := ResolveDay(svc, c.Date)
	if err != nil {
		return err
	}

	updated, err := svc.ToggleHabitOn(habit.ID, day)
	if err != nil {
		return err
	}

	if habits.IsCompleted(updated, day) {
		ctx.Printf("Marked %q for %s (streak %d)\n", updated.Name, day, updated.Streak)
	} else {
		ctx.Printf("Unmarked %q for %s (streak %d)\n", updated.Name, day, updated.Streak)
	}
	if !utils.IsDue(updated, day) {
		ctx.Printf("Note: %q is not due on %s\n", updated.Name, day)
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	progress, err := svc.GetTodayProgress()
	if err != nil {
		return err
	}

	if len(progress.Due) == 0 {
		ctx.Printf("Nothing due on %s.\n", progress.DayKey)
		return nil
	}

	ctx.Printf("Habits for %s:\n\n", progress.DayKey)
	for _, h := range progress.Due {
		line := fmt.Sprintf("%s %s", CheckMark(habits.IsCompleted(h, progress.DayKey)), h.Name)
		if h.Streak > 0 {
			line += fmt.Sprintf("  🔥 %d", h.Streak)
		}
		ctx.Println(line)
	}

	ctx.Printf("\nCompleted: %d/%d (%d%%)\n", progress.Completed, len(progress.Due), progress.Rate)
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := ResolveHabit(svc, c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		selected, err = svc.ListHabits()
		if err != nil {
			return err
		}
	}

	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	days := make([]string, c.Days)
	for i := range days {
		day, err := utils.AddDays(svc.Today(), i-(c.Days-1))
		if err != nil {
			return err
		}
		days[i] = day
	}

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)

	const maxNameLen = 20
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", maxNameLen, "Habit")
	for _, day := range days {
		// MM/DD
		fmt.Fprintf(&b, " %5s", day[5:7]+"/"+day[8:10])
	}
	ctx.Println(b.String())
	ctx.Println(strings.Repeat("-", maxNameLen+6*len(days)))

	for _, h := range selected {
		b.Reset()
		name := h.Name
		if len([]rune(name)) > maxNameLen {
			name = string([]rune(name)[:maxNameLen-3]) + "..."
		}
		fmt.Fprintf(&b, "%-*s", maxNameLen, name)
		for _, day := range days {
			mark := "·"
			switch {
			case habits.IsCompleted(h, day):
				mark = "■"
			case !utils.IsDue(h, day):
				mark = " "
			}
			fmt.Fprintf(&b, " %5s", mark)
		}
		ctx.Println(b.String())
	}

	ctx.Println("\nLegend: ■ done  · missed  (blank) not due")
	return nil
}

type HabitRepairCmd struct {
	DryRun bool `help:"Show what would change without saving."`
}

func (c *HabitRepairCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	repairs, err := svc.RepairStreaks(c.DryRun)
	if err != nil {
		return err
	}

	if len(repairs) == 0 {
		ctx.Println("All streaks are up to date.")
		return nil
	}

	verb := "Repaired"
	if c.DryRun {
		verb = "Would repair"
	}
	for _, r := range repairs {
		ctx.Printf("%s %s: streak %d -> %d\n", verb, r.Name, r.Before, r.After)
	}
	return nil
}
