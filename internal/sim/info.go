package sim

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
)

// Info is the text shown for a selected body. It is built from the
// body's descriptor, never from simulated state.
type Info struct {
	Name  string
	Lines []string
}

// String renders the panel as newline-separated text.
func (i Info) String() string {
	return i.Name + "\n" + strings.Join(i.Lines, "\n")
}

// InfoFor formats a descriptor for the info panel.
func InfoFor(d *body.Descriptor) Info {
	return Info{
		Name: d.Name,
		Lines: []string{
			fmt.Sprintf("Mass: %.2e kg", d.Mass),
			fmt.Sprintf("Distance from Sun: %.2f million km", d.Distance),
			fmt.Sprintf("Radius: %.4f Earth radii", d.Radius/body.EarthRadius),
			fmt.Sprintf("Orbital Speed: %.2f km/s", d.Speed),
		},
	}
}

// Info returns the info panel for a body.
func (s *Session) Info(id body.ID) (Info, bool) {
	b := s.reg.Get(id)
	if b == nil {
		return Info{}, false
	}
	return InfoFor(b.Desc), true
}

// LightTime returns the one-way light time in seconds from the anchor to
// a body's current scene position.
func (s *Session) LightTime(id body.ID) (float64, bool) {
	b := s.reg.Get(id)
	if b == nil || s.params.ScaleFactor <= 0 {
		return 0, false
	}
	anchor := s.reg.Get(s.reg.Anchor())
	au := b.Position.DistanceTo(anchor.Position) / s.params.ScaleFactor
	return astro.LightTimeFromAU(au), true
}

// SelectedInfo returns the info panel for the selected body.
func (s *Session) SelectedInfo() (Info, bool) {
	id, ok := s.Selected()
	if !ok {
		return Info{}, false
	}
	return s.Info(id)
}
