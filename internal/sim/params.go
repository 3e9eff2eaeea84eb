// Package sim owns a running orrery session: body placement from an
// ephemeris model, the per-frame gravity step, camera interaction and
// the info panel.
package sim

// Params are the placement and integration constants of a session.
type Params struct {
	G           float64 // Gravitational constant, SI
	TimeScale   float64 // Multiplier applied to frame time
	MaxVelocity float64 // Velocity ceiling, scene units per scaled second

	ScaleFactor    float64 // Scene units per AU
	SatelliteScale float64 // Scene units per catalog distance unit, for satellites

	// MinSeparation floors the distance used in the force law. Zero
	// leaves the force unbounded as the separation shrinks.
	MinSeparation float64

	// ResyncVelocityOnJump resets velocities to their initial tangential
	// values when the date changes. When false, bodies keep the velocity
	// they had before the jump.
	ResyncVelocityOnJump bool
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		G:                    6.67430e-11,
		TimeScale:            1e-2,
		MaxVelocity:          0.01,
		ScaleFactor:          100,
		SatelliteScale:       1000,
		MinSeparation:        1e-3,
		ResyncVelocityOnJump: true,
	}
}
