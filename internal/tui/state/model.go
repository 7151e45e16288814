package state

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitsnap/internal/activity"
	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/habits"
	habitlist "github.com/julianstephens/habitsnap/internal/tui/components/habits"
	"github.com/julianstephens/habitsnap/internal/tui/components/heatmap"
	"github.com/julianstephens/habitsnap/internal/tui/forms"
	"github.com/julianstephens/habitsnap/internal/validation"
)

// KeyMap holds the global key bindings
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// Model represents the shared state for the TUI
type Model struct {
	Service             *habits.Service
	State               constants.SessionState
	Keys                KeyMap
	Help                help.Model
	TodayModel          habitlist.Model
	HeatmapModel        heatmap.Model
	Form                *huh.Form
	HabitForm           *forms.HabitFormModel
	HabitToDeleteID     string
	Status              string // one-line feedback shown under the tabs
	ValidationWarning   string
	ValidationConflicts []validation.Conflict
	Quitting            bool
	Width               int
	Height              int
}

// New creates a new state Model showing today's habits and the current month
func New(svc *habits.Service) Model {
	now := svc.Now()
	m := Model{
		Service:      svc,
		State:        constants.StateToday,
		Keys:         DefaultKeyMap(),
		Help:         help.New(),
		TodayModel:   habitlist.New(nil, 0, 0),
		HeatmapModel: heatmap.New(emptyMonth(now), svc.Now, svc.Location()),
	}
	m.RefreshToday()
	m.LoadMonth(now.Year(), now.Month())
	m.RefreshDataWarning()
	return m
}

// RefreshToday reloads the habits due today along with their photo counts.
func (m *Model) RefreshToday() {
	progress, err := m.Service.GetTodayProgress()
	if err != nil {
		m.Status = fmt.Sprintf("failed to load habits: %v", err)
		return
	}

	counts := make(map[string]int)
	if photos, err := m.Service.FindPhotos("", progress.DayKey); err == nil {
		for _, p := range photos {
			counts[p.HabitID]++
		}
	}

	items := make([]habitlist.Item, 0, len(progress.Due))
	for _, h := range progress.Due {
		items = append(items, habitlist.Item{
			Habit:  h,
			Done:   habits.IsCompleted(h, progress.DayKey),
			Photos: counts[h.ID],
		})
	}
	m.TodayModel.SetItems(items)
}

// LoadMonth replaces the heatmap with the given month.
func (m *Model) LoadMonth(year int, month time.Month) {
	data, err := m.Service.GetHeatmapData(year, month)
	if err != nil {
		m.Status = err.Error()
		return
	}
	m.HeatmapModel.SetData(data)
}

// Progress returns the completion summary line for today.
func (m *Model) Progress() string {
	progress, err := m.Service.GetTodayProgress()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s · %d/%d done · %d%%", progress.DayKey, progress.Completed, len(progress.Due), progress.Rate)
}

func emptyMonth(now time.Time) activity.Heatmap {
	return activity.Heatmap{Year: now.Year(), Month: now.Month()}
}
