package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/tui/components/habits"
	"github.com/julianstephens/habitsnap/internal/tui/forms"
	"github.com/julianstephens/habitsnap/internal/tui/state"
)

// HandleAddHabitState handles the add habit state
func HandleAddHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.State = constants.StateToday
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		habit, err := m.HabitForm.ApplyTo(models.Habit{})
		if err == nil {
			habit, err = m.Service.CreateHabit(habit)
		}
		if err != nil {
			m.Status = fmt.Sprintf("could not add habit: %v", err)
		} else {
			m.Status = fmt.Sprintf("added %s", habit.Name)
			m.RefreshToday()
			m.RefreshDataWarning()
		}
		m.State = constants.StateToday
	case huh.StateAborted:
		m.State = constants.StateToday
	}
	return tea.Batch(cmds...)
}

// HandleHabitMessages handles messages from the today list
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.HabitForm = &forms.HabitFormModel{}
		m.Form = forms.NewHabitForm(m.HabitForm)
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.ToggleHabitMsg:
		h, err := m.Service.ToggleHabitToday(msg.ID)
		if err != nil {
			label := h.Name
			if label == "" {
				label = msg.ID
			}
			m.Status = fmt.Sprintf("could not update %s: %v", label, err)
		} else {
			m.Status = ""
		}
		m.RefreshToday()
		now := m.Service.Now()
		data := m.HeatmapModel.Data()
		if data.Year == now.Year() && data.Month == now.Month() {
			m.LoadMonth(data.Year, data.Month)
		}
		return true, nil

	case habits.ShowPhotosMsg:
		photos, err := m.Service.FindPhotos(msg.ID, m.Service.Today())
		if err != nil {
			m.Status = err.Error()
			return true, nil
		}
		total, err := m.Service.FindPhotos(msg.ID, "")
		if err != nil {
			m.Status = err.Error()
			return true, nil
		}
		m.Status = fmt.Sprintf("%d photo(s) today, %d in total", len(photos), len(total))
		return true, nil

	case habits.DeleteHabitMsg:
		m.HabitToDeleteID = msg.ID
		m.State = constants.StateConfirmDelete
		return true, nil
	}
	return false, nil
}
