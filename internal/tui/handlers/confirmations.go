package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/tui/state"
)

// HandleConfirmDeleteState handles the delete confirmation state. Photos of
// the deleted habit are kept.
func HandleConfirmDeleteState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if m.HabitToDeleteID != "" {
				if err := m.Service.DeleteHabit(m.HabitToDeleteID); err != nil {
					m.Status = fmt.Sprintf("could not delete habit: %v", err)
				} else {
					m.RefreshToday()
					data := m.HeatmapModel.Data()
					m.LoadMonth(data.Year, data.Month)
					m.RefreshDataWarning()
				}
				m.HabitToDeleteID = ""
			}
			m.State = constants.StateToday
		case "n", "N", "esc":
			m.HabitToDeleteID = ""
			m.State = constants.StateToday
		}
	}
	return nil
}
