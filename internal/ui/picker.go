package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
)

// PlanetChosenMsg is sent when the planet picker confirms a body.
type PlanetChosenMsg struct {
	Name string
}

// DateChosenMsg is sent when the date picker confirms a valid date.
type DateChosenMsg struct {
	Date time.Time
}

var (
	pickerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7B2CBF")).
			Padding(0, 2)
	pickerTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	pickerItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pickerHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	pickerErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
)

// PlanetPicker is a modal list of body names.
type PlanetPicker struct {
	names  []string
	cursor int
	active bool
}

// Open shows the picker with the cursor on current, or the first name.
func (p PlanetPicker) Open(names []string, current string) PlanetPicker {
	p.names = names
	p.cursor = 0
	for i, n := range names {
		if n == current {
			p.cursor = i
			break
		}
	}
	p.active = len(names) > 0
	return p
}

// Active reports whether the picker is open.
func (p PlanetPicker) Active() bool { return p.active }

// Cursor returns the highlighted name.
func (p PlanetPicker) Cursor() string {
	if p.cursor < 0 || p.cursor >= len(p.names) {
		return ""
	}
	return p.names[p.cursor]
}

// Update handles keys while the picker is open.
func (p PlanetPicker) Update(msg tea.KeyMsg) (PlanetPicker, tea.Cmd) {
	n := len(p.names)
	if !p.active || n == 0 {
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		p.cursor = (p.cursor - 1 + n) % n
	case "down", "j":
		p.cursor = (p.cursor + 1) % n
	case "home":
		p.cursor = 0
	case "end":
		p.cursor = n - 1
	case "enter":
		p.active = false
		name := p.names[p.cursor]
		return p, func() tea.Msg { return PlanetChosenMsg{Name: name} }
	case "esc", "p":
		p.active = false
	}
	return p, nil
}

// View renders the picker box.
func (p PlanetPicker) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Fly to body"))
	b.WriteString("\n\n")
	for i, name := range p.names {
		if i == p.cursor {
			b.WriteString(pickerCursorStyle.Render("▶ " + name))
		} else {
			b.WriteString(pickerItemStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pickerHintStyle.Render("↑/↓ select · enter fly · esc close"))
	return pickerBoxStyle.Render(b.String())
}

const dateLayoutLen = len(time.DateOnly)

// DatePicker is a modal YYYY-MM-DD input.
type DatePicker struct {
	input  []rune
	err    string
	active bool
}

// Open shows the picker prefilled with t.
func (d DatePicker) Open(t time.Time) DatePicker {
	d.input = []rune(t.UTC().Format(time.DateOnly))
	d.err = ""
	d.active = true
	return d
}

// Active reports whether the picker is open.
func (d DatePicker) Active() bool { return d.active }

// Input returns the text typed so far.
func (d DatePicker) Input() string { return string(d.input) }

// Err returns the last validation message.
func (d DatePicker) Err() string { return d.err }

// Update handles keys while the picker is open. Invalid input keeps the
// picker open with an error.
func (d DatePicker) Update(msg tea.KeyMsg) (DatePicker, tea.Cmd) {
	if !d.active {
		return d, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		d.active = false
		return d, nil
	case tea.KeyEnter:
		t, err := astro.ParseDate(string(d.input))
		if err != nil {
			d.err = fmt.Sprintf("%q is not a date (YYYY-MM-DD)", string(d.input))
			return d, nil
		}
		d.active = false
		return d, func() tea.Msg { return DateChosenMsg{Date: t} }
	case tea.KeyBackspace:
		if len(d.input) > 0 {
			d.input = d.input[:len(d.input)-1]
		}
	case tea.KeyCtrlU:
		d.input = d.input[:0]
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9' || r == '-') && len(d.input) < dateLayoutLen {
				d.input = append(d.input, r)
			}
		}
	}
	d.err = ""
	return d, nil
}

// View renders the picker box.
func (d DatePicker) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Jump to date"))
	b.WriteString("\n\n")
	b.WriteString(pickerCursorStyle.Render(string(d.input) + "_"))
	b.WriteString("\n")
	if d.err != "" {
		b.WriteString(pickerErrStyle.Render(d.err))
	}
	b.WriteString("\n")
	b.WriteString(pickerHintStyle.Render("YYYY-MM-DD · enter jump · esc close"))
	return pickerBoxStyle.Render(b.String())
}
