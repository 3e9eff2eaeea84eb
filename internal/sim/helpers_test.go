package sim

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/ephem"
)

var day2024 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fixedModel places each known body at a fixed polar position,
// optionally advancing longitude by one radian per day from JD 2460310.5.
type fixedModel struct {
	positions map[string]ephem.Polar
	drift     bool
	failing   map[string]bool
}

func (m *fixedModel) Name() string { return "fixed" }

func (m *fixedModel) Has(name string) bool {
	_, ok := m.positions[strings.ToLower(name)]
	return ok
}

func (m *fixedModel) Position(name string, jd float64) (ephem.Polar, error) {
	if m.failing[strings.ToLower(name)] {
		return ephem.Polar{}, fmt.Errorf("fixed model offline for %s", name)
	}
	p, ok := m.positions[strings.ToLower(name)]
	if !ok {
		return ephem.Polar{}, fmt.Errorf("%w: %q", ephem.ErrUnknownBody, name)
	}
	if m.drift {
		p.Lon = math.Mod(p.Lon+(jd-2460310.5), 2*math.Pi)
	}
	return p, nil
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Time.IsZero() {
		opts.Time = day2024
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func mustBody(t *testing.T, s *Session, name string) *body.State {
	t.Helper()
	b, ok := s.Registry().ByName(name)
	if !ok {
		t.Fatalf("body %s not in scene", name)
	}
	return b
}

func vecNear(a, b astro.Vec3, tol float64) bool {
	return a.DistanceTo(b) <= tol
}

func positions(s *Session) []astro.Vec3 {
	var out []astro.Vec3
	s.Registry().Each(func(b *body.State) { out = append(out, b.Position) })
	return out
}
