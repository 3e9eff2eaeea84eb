// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/version"
)

const (
	hudHeight  = 3
	maxFrameDT = 0.25 // Seconds; longer gaps are treated as a stall
	minWidth   = 40
	minHeight  = hudHeight + 8
	defaultFPS = 30
)

// Msg types for Bubble Tea
type (
	// FrameMsg drives one simulation frame.
	FrameMsg time.Time

	// ClockMsg updates the wall clock once a second.
	ClockMsg time.Time

	// dateResolvedMsg delivers the ephemeris lookups for a date jump.
	dateResolvedMsg struct {
		seq  int
		plan *sim.DatePlan
	}
)

// Options configures New.
type Options struct {
	FPS    int
	Labels bool
	Orbits bool
	Logger *logging.Logger
	Now    func() time.Time // Used by "jump to today"; default time.Now
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	session *sim.Session
	log     *logging.Logger
	fps     int
	now     func() time.Time

	// UI state
	width     int
	height    int
	ready     bool
	paused    bool
	lastFrame time.Time
	clock     time.Time
	statusMsg string

	// Date jumps resolve in the background; only the latest is applied.
	dateSeq   int
	resolving bool

	// Sub-models
	orrery  OrreryModel
	planets PlanetPicker
	dates   DatePicker
}

// New creates a new root UI model.
func New(s *sim.Session, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Model{
		session: s,
		log:     opts.Logger.With("component", "ui"),
		fps:     opts.FPS,
		now:     opts.Now,
		orrery:  NewOrreryModel(s, opts.Labels, opts.Orbits),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.fps),
		clockCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if !m.modalOpen() {
			m.orrery, _ = m.orrery.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.orrery = m.orrery.SetSize(msg.Width, max(msg.Height-hudHeight, 1))

	case FrameMsg:
		now := time.Time(msg)
		dt := frameDT(m.lastFrame, now)
		m.lastFrame = now
		if m.paused {
			m.session.AnimateCamera(dt)
		} else {
			m.session.Frame(dt)
		}
		cmds = append(cmds, frameCmd(m.fps))

	case ClockMsg:
		m.clock = time.Time(msg)
		cmds = append(cmds, clockCmd())

	case PlanetChosenMsg:
		if m.session.Select(msg.Name) {
			m.statusMsg = "Flying to " + msg.Name
		} else {
			m.statusMsg = "Unknown body: " + msg.Name
		}

	case DateChosenMsg:
		cmds = append(cmds, m.jumpTo(msg.Date))

	case dateResolvedMsg:
		if msg.seq == m.dateSeq {
			m.applyDate(msg.plan)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// An open picker takes every key.
	if m.planets.Active() {
		var cmd tea.Cmd
		m.planets, cmd = m.planets.Update(msg)
		return cmd
	}
	if m.dates.Active() {
		var cmd tea.Cmd
		m.dates, cmd = m.dates.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case " ":
		m.paused = !m.paused
		if m.paused {
			m.statusMsg = "Paused"
		} else {
			m.statusMsg = ""
		}
	case "p":
		current := ""
		if id, ok := m.session.Selected(); ok {
			current = m.session.Registry().Get(id).Desc.Name
		}
		m.planets = m.planets.Open(m.session.Registry().Names(), current)
	case "d":
		m.dates = m.dates.Open(m.session.Time())
	case "T":
		return m.jumpTo(m.now())
	default:
		var cmd tea.Cmd
		m.orrery, cmd = m.orrery.Update(msg)
		return cmd
	}
	return nil
}

// jumpTo starts a date jump. The model may go to the network, so the
// lookups run in a command and the result comes back as dateResolvedMsg.
func (m *Model) jumpTo(t time.Time) tea.Cmd {
	plan := m.session.PlanDate(astro.JulianDate(t))
	m.dateSeq++
	seq := m.dateSeq
	m.resolving = true
	m.statusMsg = "Resolving " + jdLabel(plan.JD) + "..."

	return func() tea.Msg {
		plan.Resolve()
		return dateResolvedMsg{seq: seq, plan: plan}
	}
}

func (m *Model) applyDate(plan *sim.DatePlan) {
	m.resolving = false
	err := m.session.ApplyDate(plan)
	m.statusMsg = "Jumped to " + jdLabel(plan.JD)
	if err != nil {
		m.log.Warn("date jump to JD %.5f: %v", plan.JD, err)
		m.statusMsg += " (some bodies kept their place)"
	}
}

func (m Model) modalOpen() bool {
	return m.planets.Active() || m.dates.Active()
}

// Resolving reports whether a date jump is waiting on the ephemeris.
func (m Model) Resolving() bool { return m.resolving }

// Paused reports whether integration is paused.
func (m Model) Paused() bool { return m.paused }

// Session returns the simulation the model drives.
func (m Model) Session() *sim.Session { return m.session }

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < minWidth || m.height < minHeight {
		return "Terminal too small for the orrery"
	}

	var content string
	switch {
	case m.planets.Active():
		content = m.placeModal(m.planets.View())
	case m.dates.Active():
		content = m.placeModal(m.dates.View())
	default:
		content = m.orrery.View()
	}
	return content + "\n" + m.renderHUD()
}

func (m Model) placeModal(box string) string {
	return lipgloss.Place(m.orrery.width, m.orrery.height, lipgloss.Center, lipgloss.Center, box)
}

var (
	hudLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	hudValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	hudDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	hudWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
)

func (m Model) renderHUD() string {
	return strings.Join([]string{
		m.renderStatusLine(),
		m.renderInfoPanel(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) renderStatusLine() string {
	var b strings.Builder
	b.WriteString(renderTitle("ls-orrery"))
	b.WriteString(hudDimStyle.Render(" v" + version.Version))
	b.WriteString("  ")

	b.WriteString(hudLabelStyle.Render("Date: "))
	b.WriteString(hudValueStyle.Render(m.session.Time().Format("2006-01-02 15:04 UTC")))
	b.WriteString("  ")
	b.WriteString(hudLabelStyle.Render("JD: "))
	b.WriteString(hudValueStyle.Render(fmt.Sprintf("%.2f", m.session.JulianDate())))
	b.WriteString("  ")
	b.WriteString(hudLabelStyle.Render("Ephem: "))
	b.WriteString(hudValueStyle.Render(m.session.Model().Name()))

	if m.paused {
		b.WriteString("  ")
		b.WriteString(hudWarnStyle.Render("⏸ paused"))
	}
	if m.resolving {
		b.WriteString("  ")
		b.WriteString(hudWarnStyle.Render("⟳ resolving"))
	}
	if skipped := m.session.Skipped(); len(skipped) > 0 {
		b.WriteString("  ")
		b.WriteString(hudWarnStyle.Render("skipped: " + strings.Join(skipped, ", ")))
	}
	if !m.clock.IsZero() {
		b.WriteString("  ")
		b.WriteString(hudDimStyle.Render(m.clock.Format("15:04:05")))
	}
	return b.String()
}

func (m Model) renderInfoPanel() string {
	info, ok := m.session.SelectedInfo()
	if !ok {
		return hudDimStyle.Render("No body selected · click one or press p")
	}
	parts := make([]string, len(info.Lines))
	for i, line := range info.Lines {
		parts[i] = hudValueStyle.Render(line)
	}
	if id, ok := m.session.Selected(); ok {
		if lt, ok := m.session.LightTime(id); ok && lt > 0 {
			parts = append(parts, hudValueStyle.Render("Light from Sun: "+astro.FormatLightTime(lt)))
		}
	}
	return hudNameStyle.Render("◆ "+info.Name) + "  " + strings.Join(parts, hudDimStyle.Render("  │  "))
}

func (m Model) renderFooter() string {
	help := hudDimStyle.Render(fmt.Sprintf(
		"p: planets | d: date | T: today | j/k: cycle | arrows/+/-: camera | r: reset | l: labels (%s) | o: orbits | space: pause | q: quit",
		m.orrery.LabelMode()))
	if m.statusMsg != "" {
		return hudValueStyle.Render(m.statusMsg) + hudDimStyle.Render("  |  ") + help
	}
	return help
}

// renderTitle draws text with a horizontal blue to pink gradient.
func renderTitle(text string) string {
	from, _ := colorful.Hex("#3B82F6")
	to, _ := colorful.Hex("#EC4899")

	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendHcl(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true).Render(string(r)))
	}
	return b.String()
}

// frameDT returns the seconds between frames. The first frame and clock
// steps backwards yield 0; stalls are capped at maxFrameDT.
func frameDT(last, now time.Time) float64 {
	if last.IsZero() || !now.After(last) {
		return 0
	}
	dt := now.Sub(last).Seconds()
	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	return dt
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}

// jdLabel formats a Julian date for status messages.
func jdLabel(jd float64) string {
	return fmt.Sprintf("%s (JD %.2f)", astro.TimeFromJulian(jd).Format(time.DateOnly), jd)
}
