package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/tui/handlers"
)

// chromeHeight is the space taken by the tabs, status line and help.
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Forms and confirmations own the keyboard until they finish
	switch m.State {
	case constants.StateAddHabit:
		cmd := handlers.HandleAddHabitState(&m.Model, msg)
		return m, cmd
	case constants.StateConfirmDelete:
		cmd := handlers.HandleConfirmDeleteState(&m.Model, msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.TodayModel.SetSize(msg.Width-4, max(msg.Height-chromeHeight, 1))
		return m, nil
	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}
	if handled, cmd := handlers.HandleHeatmapMessages(&m.Model, msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateToday:
		m.TodayModel, cmd = m.TodayModel.Update(msg)
	case constants.StateHeatmap:
		m.HeatmapModel, cmd = m.HeatmapModel.Update(msg)
	}
	return m, cmd
}
