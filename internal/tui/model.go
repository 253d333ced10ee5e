// Package tui renders a live view of the global key event stream:
// recent events, suppression decisions, and the currently-held keys.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/keyweave/keyevent"
)

// EventMsg delivers one dispatched event to the monitor.
type EventMsg struct {
	Event      keyevent.Event
	Suppressed bool
}

// PressedMsg refreshes the held-keys line.
type PressedMsg struct {
	Names []string
}

// row is one rendered event line.
type row struct {
	ev         keyevent.Event
	suppressed bool
}

// Model is the Bubble Tea model for the monitor.
type Model struct {
	theme   Theme
	maxRows int

	rows    []row
	pressed []string
	total   int
	width   int
}

// NewModel creates a monitor keeping maxRows recent events on screen.
func NewModel(theme Theme, maxRows int) Model {
	if maxRows <= 0 {
		maxRows = 16
	}
	return Model{theme: theme, maxRows: maxRows}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case EventMsg:
		m.total++
		m.rows = append(m.rows, row{ev: msg.Event, suppressed: msg.Suppressed})
		if len(m.rows) > m.maxRows {
			m.rows = m.rows[len(m.rows)-m.maxRows:]
		}
	case PressedMsg:
		m.pressed = msg.Names
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme

	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	label := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	body := lipgloss.NewStyle().Foreground(t.Text)
	dim := lipgloss.NewStyle().Foreground(t.Dimmed)
	warn := lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	accent := lipgloss.NewStyle().Foreground(t.Accent)

	var b strings.Builder
	b.WriteString(title.Render("keyweave monitor"))
	b.WriteString(dim.Render(fmt.Sprintf("  %d events", m.total)))
	b.WriteString("\n\n")

	for _, r := range m.rows {
		line := fmt.Sprintf("%9.3f  %-4s  %-14s  %3d", r.ev.Time, r.ev.Type, displayName(r.ev), r.ev.ScanCode)
		if r.ev.Type == keyevent.KeyDown {
			b.WriteString(body.Render(line))
		} else {
			b.WriteString(dim.Render(line))
		}
		if r.suppressed {
			b.WriteString(warn.Render("  suppressed"))
		}
		if r.ev.Injected {
			b.WriteString(dim.Render("  injected"))
		}
		b.WriteString("\n")
	}
	for i := len(m.rows); i < m.maxRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(label.Render("held: "))
	if len(m.pressed) == 0 {
		b.WriteString(dim.Render("(none)"))
	} else {
		b.WriteString(accent.Render(strings.Join(m.pressed, " + ")))
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render("q to quit"))

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2)
	return border.Render(b.String())
}

func displayName(ev keyevent.Event) string {
	if ev.Name == "" {
		return "?"
	}
	if ev.IsKeypad {
		return ev.Name + " (pad)"
	}
	return ev.Name
}
