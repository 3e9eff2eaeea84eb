package sim

import (
	"math"

	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/camera"
)

// Label is a body name placed on a width×height cell grid.
type Label struct {
	ID   body.ID
	Name string

	// BodyX, BodyY is the cell the body projects to.
	BodyX, BodyY int
	// X, Y is where the label text starts: centred on the body, one row
	// above it.
	X, Y int

	Depth   float64
	Visible bool // False when the body is behind the camera or off-grid
}

// Labels projects every body onto a width×height grid.
func (s *Session) Labels(width, height int) []Label {
	labels := make([]Label, 0, s.reg.Len())
	s.reg.Each(func(b *body.State) {
		labels = append(labels, ProjectLabel(&s.cam, b, width, height))
	})
	return labels
}

// ProjectLabel projects one body's label through cam.
func ProjectLabel(cam *camera.Camera, b *body.State, width, height int) Label {
	l := Label{ID: b.ID, Name: b.Desc.Name}

	ndc, ok := cam.Project(b.Position)
	l.Depth = ndc.Depth
	if !ok || !ndc.OnScreen() {
		return l
	}

	sx, sy := camera.ToScreen(ndc, float64(width), float64(height))
	l.BodyX = clampCell(int(math.Floor(sx)), width)
	l.BodyY = clampCell(int(math.Floor(sy)), height)
	l.X = l.BodyX - len([]rune(l.Name))/2
	l.Y = l.BodyY - 1
	l.Visible = true
	return l
}

// clampCell keeps the right and bottom edges (NDC exactly 1) on the grid.
func clampCell(v, n int) int {
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}
