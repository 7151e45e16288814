// Package tui is the interactive terminal interface: today's habits and a
// month heatmap.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/habits"
	"github.com/julianstephens/habitsnap/internal/tui/state"
)

type Model struct {
	state.Model
	styles styles
}

// NewModel builds the TUI for svc, styled for the theme setting.
func NewModel(svc *habits.Service, theme string) Model {
	return Model{Model: state.New(svc), styles: newStyles(theme)}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.Keys.Tab, m.Keys.Quit, m.Keys.Help}
	switch m.State {
	case constants.StateToday:
		tk := m.TodayModel.Keys()
		keys = append(keys, tk.Toggle, tk.Add, tk.Photos, tk.Delete)
	case constants.StateHeatmap:
		hk := m.HeatmapModel.Keys()
		keys = append(keys, hk.Prev, hk.Next)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Tab, m.Keys.ShiftTab, m.Keys.Quit, m.Keys.Help}

	var actions []key.Binding
	switch m.State {
	case constants.StateToday:
		tk := m.TodayModel.Keys()
		actions = []key.Binding{tk.Toggle, tk.Add, tk.Photos, tk.Delete}
	case constants.StateHeatmap:
		hk := m.HeatmapModel.Keys()
		actions = []key.Binding{hk.Prev, hk.Next}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
