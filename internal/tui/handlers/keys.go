package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/tui/state"
)

// HandleGlobalKeys handles global key presses
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Tab), key.Matches(msg, m.Keys.ShiftTab):
		// Two main views, so both directions swap them
		switch m.State {
		case constants.StateToday:
			m.State = constants.StateHeatmap
		case constants.StateHeatmap:
			m.State = constants.StateToday
		default:
			// Sub-states (forms, confirmations) keep tab for themselves
			return false, nil
		}
		m.Status = ""
		return true, nil
	}
	return false, nil
}
