// Package heatmap renders a month of habit activity as a Monday-first grid.
package heatmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitsnap/internal/activity"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// ChangeMonthMsg asks the parent to load another month.
type ChangeMonthMsg struct {
	Year  int
	Month time.Month
}

// Level colors, from no activity to three or more completions.
var levelStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	futureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	todayStyle  = lipgloss.NewStyle().Underline(true)
)

var weekHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

const cellWidth = 4

func cell(s string) string {
	return fmt.Sprintf("%-*s", cellWidth, s)
}

// Render draws the heatmap with a title row, a weekday header and one row
// per week, followed by a legend.
func Render(hm activity.Heatmap) string {
	var b strings.Builder

	title := time.Date(hm.Year, hm.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for _, h := range weekHeader {
		b.WriteString(headerStyle.Render(cell(h)))
	}
	b.WriteString("\n")

	col := 0
	for i := 0; i < hm.LeadingBlanks; i++ {
		b.WriteString(cell(""))
		col++
	}
	for _, c := range hm.Cells {
		label := cell(c.DayKey[8:])
		switch {
		case c.Future:
			label = futureStyle.Render(label)
		default:
			style := levelStyles[c.Level]
			if c.Today {
				style = style.Inherit(todayStyle)
			}
			label = style.Render(label)
		}
		b.WriteString(label)
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("less "))
	for _, s := range levelStyles {
		b.WriteString(s.Render("■ "))
	}
	b.WriteString(headerStyle.Render("more"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d completions on %d days", hm.Total, hm.ActiveDays)
	return b.String()
}

type KeyMap struct {
	Prev key.Binding
	Next key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
	}
}

type Model struct {
	data activity.Heatmap
	keys KeyMap
	now  func() time.Time
	loc  *time.Location
}

func New(data activity.Heatmap, now func() time.Time, loc *time.Location) Model {
	return Model{data: data, keys: DefaultKeyMap(), now: now, loc: loc}
}

func (m *Model) SetData(data activity.Heatmap) {
	m.data = data
}

func (m Model) Data() activity.Heatmap {
	return m.data
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// CanGoNext reports whether the following month is not in the future.
func (m Model) CanGoNext() bool {
	y, mo := utils.ShiftMonth(m.data.Year, m.data.Month, 1)
	return utils.CanShowMonth(y, mo, m.now(), m.loc)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Prev):
		y, mo := utils.ShiftMonth(m.data.Year, m.data.Month, -1)
		return m, func() tea.Msg { return ChangeMonthMsg{Year: y, Month: mo} }
	case key.Matches(keyMsg, m.keys.Next):
		if !m.CanGoNext() {
			return m, nil
		}
		y, mo := utils.ShiftMonth(m.data.Year, m.data.Month, 1)
		return m, func() tea.Msg { return ChangeMonthMsg{Year: y, Month: mo} }
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.data.Cells) == 0 {
		return "\n  No month loaded."
	}
	return Render(m.data)
}
