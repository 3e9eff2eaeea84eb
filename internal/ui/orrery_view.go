package ui

import (
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/sim"
)

// LabelMode controls which bodies get a name label.
type LabelMode int

const (
	LabelNone     LabelMode = iota // No labels
	LabelSelected                  // Only the selected body
	LabelAll                       // Every visible body
)

func (l LabelMode) String() string {
	switch l {
	case LabelSelected:
		return "selected"
	case LabelAll:
		return "all"
	default:
		return "off"
	}
}

const (
	orbitSteps  = 96
	orbitStep   = 0.1  // Radians per arrow key press
	dollyIn     = 0.8  // Distance factor for + / wheel up
	dollyOut    = 1.25 // Distance factor for - / wheel down
	ringGlyph   = '·'
	ringColor   = "#3A3A4A"
	labelColor  = "#B0B0B0"
	selectColor = "#FFF7A8"
	depthFade   = 0.6 // Share of the color lost at the far plane
)

// cell is one character of the canvas.
type cell struct {
	ch    rune
	color string
	bold  bool
}

// OrreryModel renders the session's bodies through its camera onto a
// character canvas.
type OrreryModel struct {
	session *sim.Session

	width  int
	height int

	labelMode  LabelMode
	showOrbits bool
}

// NewOrreryModel creates the canvas view for a session.
func NewOrreryModel(s *sim.Session, labels, orbits bool) OrreryModel {
	m := OrreryModel{session: s, showOrbits: orbits}
	if labels {
		m.labelMode = LabelAll
	}
	return m
}

// SetSize updates the canvas size and the camera aspect to match.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	if width > 0 && height > 0 {
		m.session.SetAspect(cellAspect(width, height))
	}
	return m
}

// cellAspect is the viewport aspect ratio of a width×height cell grid.
// A terminal cell is about twice as tall as it is wide.
func cellAspect(width, height int) float64 {
	return float64(width) / float64(2*height)
}

// LabelMode returns the current label mode.
func (m OrreryModel) LabelMode() LabelMode { return m.labelMode }

// ShowOrbits reports whether orbit rings are drawn.
func (m OrreryModel) ShowOrbits() bool { return m.showOrbits }

// Update handles canvas keys and mouse input.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	cam := m.session.Camera()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "[":
			m.session.Cycle(-1)
		case "k", "]":
			m.session.Cycle(1)

		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "o":
			m.showOrbits = !m.showOrbits
		case "r":
			m.session.ResetCamera()

		case "left":
			cam.Orbit(-orbitStep, 0)
		case "right":
			cam.Orbit(orbitStep, 0)
		case "up":
			cam.Orbit(0, orbitStep)
		case "down":
			cam.Orbit(0, -orbitStep)
		case "+", "=":
			cam.Dolly(dollyIn)
		case "-":
			cam.Dolly(dollyOut)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if msg.Y < m.height {
				m.session.Pick(msg.X, msg.Y, m.width, m.height)
			}
		case tea.MouseButtonWheelUp:
			cam.Dolly(dollyIn)
		case tea.MouseButtonWheelDown:
			cam.Dolly(dollyOut)
		}
	}
	return m, nil
}

// View renders the canvas.
func (m OrreryModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	return renderGrid(m.buildGrid())
}

func (m OrreryModel) buildGrid() [][]cell {
	grid := make([][]cell, m.height)
	for y := range grid {
		grid[y] = make([]cell, m.width)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	if m.showOrbits {
		m.drawOrbitRings(grid)
	}
	m.drawBodies(grid)
	m.drawLabels(grid)
	return grid
}

// drawOrbitRings traces each body's reference orbit around the body it
// is measured from.
func (m OrreryModel) drawOrbitRings(grid [][]cell) {
	reg := m.session.Registry()
	cam := m.session.Camera()

	reg.Each(func(b *body.State) {
		if b.OrbitRadius <= 0 {
			return
		}
		ref := reg.Get(reg.Reference(b.ID))
		if ref == nil {
			return
		}
		for i := 0; i < orbitSteps; i++ {
			theta := 2 * math.Pi * float64(i) / orbitSteps
			p := ref.Position.Add(astro.Vec3{
				X: b.OrbitRadius * math.Cos(theta),
				Z: b.OrbitRadius * math.Sin(theta),
			})
			x, y, _, ok := m.project(cam, p)
			if ok && grid[y][x].ch == ' ' {
				grid[y][x] = cell{ch: ringGlyph, color: ringColor}
			}
		}
	})
}

// drawBodies draws far bodies first so nearer ones cover them.
func (m OrreryModel) drawBodies(grid [][]cell) {
	reg := m.session.Registry()
	cam := m.session.Camera()
	selected, hasSel := m.session.Selected()

	type placed struct {
		b     *body.State
		x, y  int
		depth float64
	}
	var visible []placed
	reg.Each(func(b *body.State) {
		x, y, depth, ok := m.project(cam, b.Position)
		if ok {
			visible = append(visible, placed{b, x, y, depth})
		}
	})
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].depth > visible[j].depth
	})

	for _, p := range visible {
		isSel := hasSel && p.b.ID == selected
		r := cam.ProjectedRadius(p.b.Radius, p.depth, m.height)
		color := shade(p.b.Desc.Color, p.depth, cam.Far)
		if isSel {
			color = selectColor
		}

		if r >= 1.5 {
			fillDisc(grid, p.x, p.y, r, cell{ch: '█', color: color})
		}
		grid[p.y][p.x] = cell{ch: bodyGlyph(p.b.Desc.Kind, r, isSel), color: color, bold: isSel}
	}
}

func (m OrreryModel) drawLabels(grid [][]cell) {
	if m.labelMode == LabelNone {
		return
	}
	selected, hasSel := m.session.Selected()

	for _, l := range m.session.Labels(m.width, m.height) {
		if !l.Visible || l.Y < 0 {
			continue
		}
		isSel := hasSel && l.ID == selected
		if m.labelMode == LabelSelected && !isSel {
			continue
		}
		color := labelColor
		if isSel {
			color = selectColor
		}
		for i, r := range []rune(l.Name) {
			x := l.X + i
			if x < 0 || x >= m.width {
				continue
			}
			if c := grid[l.Y][x]; c.ch == ' ' || c.ch == ringGlyph {
				grid[l.Y][x] = cell{ch: r, color: color, bold: isSel}
			}
		}
	}
}

// project maps a world point to a canvas cell.
func (m OrreryModel) project(cam *camera.Camera, p astro.Vec3) (x, y int, depth float64, ok bool) {
	ndc, ok := cam.Project(p)
	if !ok || !ndc.OnScreen() {
		return 0, 0, 0, false
	}
	sx, sy := camera.ToScreen(ndc, float64(m.width), float64(m.height))
	x = min(int(math.Floor(sx)), m.width-1)
	y = min(int(math.Floor(sy)), m.height-1)
	return x, y, ndc.Depth, true
}

func fillDisc(grid [][]cell, cx, cy int, r float64, c cell) {
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -2 * ri; dx <= 2*ri; dx++ {
			// Columns are half as tall as rows.
			fx := float64(dx) / 2
			if fx*fx+float64(dy*dy) > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
				grid[y][x] = c
			}
		}
	}
}

func bodyGlyph(kind body.Kind, r float64, selected bool) rune {
	switch {
	case kind == body.KindAnchor:
		return '☉'
	case selected:
		return '◉'
	case r >= 0.5:
		return '●'
	case kind == body.KindSatellite:
		return '∘'
	default:
		return '•'
	}
}

// shade dims a 0xRRGGBB color toward black with depth.
func shade(rgb uint32, depth, far float64) string {
	c := colorful.Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
	}
	t := 0.0
	if far > 0 {
		t = math.Max(0, math.Min(1, depth/far)) * depthFade
	}
	return c.BlendLab(colorful.Color{}, t).Clamped().Hex()
}

// renderGrid styles runs of same-colored cells together.
func renderGrid(grid [][]cell) string {
	var b strings.Builder
	for y, row := range grid {
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.color == "" {
				b.WriteString(run.String())
			} else {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(cur.color)).Bold(cur.bold)
				b.WriteString(style.Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.color != cur.color || c.bold != cur.bold {
				flush()
				cur = c
			}
			run.WriteRune(c.ch)
		}
		flush()
		if y < len(grid)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
