package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitsnap/internal/tui/components/heatmap"
	"github.com/julianstephens/habitsnap/internal/tui/state"
)

// HandleHeatmapMessages loads the month requested by the heatmap view
func HandleHeatmapMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(heatmap.ChangeMonthMsg); ok {
		m.LoadMonth(msg.Year, msg.Month)
		return true, nil
	}
	return false, nil
}
