package sim

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
)

// twoBody builds an anchor of mass refMass at the origin and one body of
// unit mass at pos.
func twoBody(t *testing.T, refMass float64, pos astro.Vec3) (*body.Registry, *body.State) {
	t.Helper()
	r := body.NewRegistry()
	if _, err := r.Add(body.Descriptor{Name: "Sun", Radius: 1, Mass: refMass, Kind: body.KindAnchor}, body.NoParent); err != nil {
		t.Fatal(err)
	}
	id, err := r.Add(body.Descriptor{Name: "Probe", Radius: 1, Mass: 1}, body.NoParent)
	if err != nil {
		t.Fatal(err)
	}
	b := r.Get(id)
	b.Position = pos
	return r, b
}

func TestIntegrateZeroDT(t *testing.T) {
	s := newSession(t, Options{})
	before := positions(s)
	var vels []astro.Vec3
	s.Registry().Each(func(b *body.State) { vels = append(vels, b.Velocity) })

	for _, dt := range []float64{0, -1} {
		stats := Integrate(s.Registry(), s.Params(), dt, nil)
		if stats.Integrated != 0 {
			t.Errorf("dt=%v integrated %d bodies", dt, stats.Integrated)
		}
	}

	after := positions(s)
	i := 0
	s.Registry().Each(func(b *body.State) {
		if after[i] != before[i] || b.Velocity != vels[i] {
			t.Errorf("%s changed on zero step", b.Desc.Name)
		}
		i++
	})
}

func TestIntegrateInvariants(t *testing.T) {
	s := newSession(t, Options{})
	p := s.Params()
	anchor := s.Registry().Get(s.Registry().Anchor())

	for frame := 0; frame < 500; frame++ {
		stats := Integrate(s.Registry(), p, 1.0/30, nil)
		if stats.Integrated != s.Registry().Len()-1 {
			t.Fatalf("frame %d: integrated %d, want %d", frame, stats.Integrated, s.Registry().Len()-1)
		}
		if !anchor.Position.IsZero() || !anchor.Velocity.IsZero() {
			t.Fatalf("frame %d: anchor moved: pos %v vel %v", frame, anchor.Position, anchor.Velocity)
		}
		s.Registry().Each(func(b *body.State) {
			if v := b.Velocity.Norm(); v > p.MaxVelocity*(1+1e-12) {
				t.Fatalf("frame %d: %s speed %v exceeds %v", frame, b.Desc.Name, v, p.MaxVelocity)
			}
		})
	}
}

func TestIntegratePullsTowardReference(t *testing.T) {
	r, b := twoBody(t, 1.989e30, astro.Vec3{X: 100})
	p := DefaultParams()

	stats := Integrate(r, p, 0.1, nil)
	if b.Velocity.X >= 0 || b.Velocity.Y != 0 || b.Velocity.Z != 0 {
		t.Errorf("velocity = %v, want pointing at the anchor", b.Velocity)
	}
	if b.Position.X >= 100 {
		t.Errorf("position = %v, want moved toward the anchor", b.Position)
	}
	if stats.Clamped != 1 {
		t.Errorf("clamped = %d, want 1 (solar pull exceeds the ceiling)", stats.Clamped)
	}
}

func TestIntegrateForceLaw(t *testing.T) {
	p := Params{G: 2, TimeScale: 1, MaxVelocity: 1e30, MinSeparation: 0}
	r, b := twoBody(t, 50, astro.Vec3{Z: 10})

	Integrate(r, p, 0.5, nil)

	// a = G·M/d² = 2·50/100 = 1, Δv = a·dt = 0.5, Δp = v·dt = 0.25
	if math.Abs(b.Velocity.Z+0.5) > 1e-12 {
		t.Errorf("velocity.Z = %v, want -0.5", b.Velocity.Z)
	}
	if math.Abs(b.Position.Z-9.75) > 1e-12 {
		t.Errorf("position.Z = %v, want 9.75", b.Position.Z)
	}
}

func TestIntegrateMinSeparation(t *testing.T) {
	tests := []struct {
		name    string
		minSep  float64
		wantVel float64
	}{
		{"floored", 1e-3, 1e10 / 1e-6},
		{"unguarded", 0, 1e10 / 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{G: 1, TimeScale: 1, MaxVelocity: 1e40, MinSeparation: tt.minSep}
			r, b := twoBody(t, 1e10, astro.Vec3{X: 1e-6})

			Integrate(r, p, 1, nil)
			if got := b.Velocity.Norm(); math.Abs(got-tt.wantVel)/tt.wantVel > 1e-9 {
				t.Errorf("speed = %v, want %v", got, tt.wantVel)
			}
		})
	}
}

func TestIntegrateCoincident(t *testing.T) {
	r, b := twoBody(t, 1e30, astro.Vec3{})
	b.Velocity = astro.Vec3{X: 0.001}

	stats := Integrate(r, DefaultParams(), 1, nil)
	if stats.Integrated != 1 {
		t.Fatalf("integrated = %d, want 1", stats.Integrated)
	}
	if b.Velocity != (astro.Vec3{X: 0.001}) {
		t.Errorf("velocity = %v, want unchanged", b.Velocity)
	}
	if math.IsNaN(b.Position.X) || b.Position.X <= 0 {
		t.Errorf("position = %v, want drift along +X", b.Position)
	}
}

func TestIntegrateSatelliteUsesParent(t *testing.T) {
	s := newSession(t, Options{})
	earth := mustBody(t, s, "Earth")
	moon := mustBody(t, s, "Moon")

	Integrate(s.Registry(), s.Params(), 1.0/30, nil)

	toEarth := earth.Position.Sub(moon.Position).Normalized()
	if dot := moon.Velocity.Normalized().Dot(toEarth); dot < 0.999 {
		t.Errorf("moon velocity %v not aimed at Earth (dot %v)", moon.Velocity, dot)
	}
}

func TestIntegrateSkip(t *testing.T) {
	r, b := twoBody(t, 1e30, astro.Vec3{X: 50})
	skipAll := func(body.ID) bool { return true }

	stats := Integrate(r, DefaultParams(), 1, skipAll)
	if stats.Integrated != 0 || b.Position != (astro.Vec3{X: 50}) {
		t.Errorf("skipped body moved: %+v, pos %v", stats, b.Position)
	}
}
