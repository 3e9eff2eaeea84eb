package sim

import (
	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
)

// StepStats summarizes one integrator step.
type StepStats struct {
	Integrated int // Bodies advanced
	Clamped    int // Bodies whose speed hit MaxVelocity
}

// Integrate advances every body except the anchor and those for which
// skip returns true by dt seconds, using a single forward Euler pass.
//
// Each body is pulled only by its reference (parent, or the anchor):
// a = G·m_ref·m_body/d² / m_body along body→reference. Velocity and
// position both advance by dt·TimeScale and speed is clamped to
// MaxVelocity. Bodies are visited in ID order, so a satellite sees its
// parent's position from this step. A non-positive dt does nothing.
func Integrate(reg *body.Registry, p Params, dt float64, skip func(body.ID) bool) StepStats {
	var stats StepStats
	if dt <= 0 {
		return stats
	}

	anchor := reg.Anchor()
	h := dt * p.TimeScale

	reg.Each(func(b *body.State) {
		if b.ID == anchor || (skip != nil && skip(b.ID)) {
			return
		}
		ref := reg.Get(reg.Reference(b.ID))
		if ref == nil {
			return
		}

		toRef := ref.Position.Sub(b.Position)
		// Coincident bodies have no defined force direction.
		if d := toRef.Norm(); d > 0 {
			if d < p.MinSeparation {
				d = p.MinSeparation
			}
			force := p.G * ref.Mass * b.Mass / (d * d)
			accel := toRef.Normalized().Scale(force / b.Mass)
			b.Velocity = b.Velocity.Add(accel.Scale(h))
		}

		var clamped bool
		if b.Velocity, clamped = limitSpeed(b.Velocity, p.MaxVelocity); clamped {
			stats.Clamped++
		}

		b.Position = b.Position.Add(b.Velocity.Scale(h))
		stats.Integrated++
	})

	return stats
}

// limitSpeed shortens v to limit when it is longer.
func limitSpeed(v astro.Vec3, limit float64) (astro.Vec3, bool) {
	if v.Norm() > limit {
		return v.WithLength(limit), true
	}
	return v, false
}
