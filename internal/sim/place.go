package sim

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/ephem"
)

// Placement is where a body starts: position, initial velocity and the
// radius of its reference orbit ring.
type Placement struct {
	Position    astro.Vec3
	Velocity    astro.Vec3
	OrbitRadius float64
}

// Place computes a body's placement for a Julian date.
//
// Anchors sit at the origin. Planets come from the model: the polar
// position is flattened onto the horizontal plane, scaled, and offset by
// parentPos when the body has a parent; the initial velocity is
// tangential with the descriptor's nominal speed, capped at MaxVelocity
// like every integrated velocity. Satellites sit at
// Distance·SatelliteScale along +X from parentPos and start at rest.
//
// A model error (including ephem.ErrUnknownBody) is returned unchanged
// so the caller can skip the body.
func Place(model ephem.Model, desc *body.Descriptor, jd float64, parentPos astro.Vec3, p Params) (Placement, error) {
	switch desc.Kind {
	case body.KindAnchor:
		return Placement{}, nil

	case body.KindSatellite:
		offset := desc.Distance * p.SatelliteScale
		return Placement{
			Position:    parentPos.Add(astro.Vec3{X: offset}),
			OrbitRadius: offset,
		}, nil
	}

	polar, err := model.Position(desc.Name, jd)
	if err != nil {
		return Placement{}, fmt.Errorf("place %s: %w", desc.Name, err)
	}
	return placePolar(desc, polar, parentPos, p), nil
}

// placePolar places a planet from an ephemeris position already looked up.
func placePolar(desc *body.Descriptor, polar ephem.Polar, parentPos astro.Vec3, p Params) Placement {
	pos := polar.Cartesian().Scale(p.ScaleFactor)
	if desc.HasParent() {
		pos = pos.Add(parentPos)
	}
	vel, _ := limitSpeed(polar.Tangent().Scale(desc.Speed), p.MaxVelocity)
	return Placement{
		Position:    pos,
		Velocity:    vel,
		OrbitRadius: polar.Range * p.ScaleFactor,
	}
}
