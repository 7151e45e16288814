package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitsnap/internal/constants"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string

	switch m.State {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateHeatmap:
		content = m.styles.doc.Render(m.HeatmapModel.View())
	case constants.StateAddHabit:
		content = m.Form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var banner string
	if m.ValidationWarning != "" {
		banner = m.styles.banner.Render(m.ValidationWarning)
	}

	var status string
	if m.Status != "" {
		status = m.styles.status.Render(m.Status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		status,
		content,
		m.Help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	views := []struct {
		title string
		state constants.SessionState
	}{
		{"Today", constants.StateToday},
		{"Heatmap", constants.StateHeatmap},
	}
	for _, v := range views {
		if m.State == v.state {
			tabs = append(tabs, m.styles.activeTab.Render(v.title))
		} else {
			tabs = append(tabs, m.styles.activeTab.Render(v.title))
		}
	}
	tabs = append(tabs, m.styles.progress.Render(m.Progress()))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	return m.styles.doc.Render(m.TodayModel.View())
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.Width, max(m.Height-4, 1),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.danger.Render("Are you sure you want to delete this habit?"),
			m.styles.warning.Render("Its photos are kept."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
