// Package ephem provides ephemeris models that place planets in
// heliocentric orbital-plane coordinates for a Julian date.
package ephem

import (
	"errors"
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// ErrUnknownBody is returned when a model has no data for a body name.
var ErrUnknownBody = errors.New("ephem: unknown body")

// Polar is a heliocentric position in orbital-plane polar form.
type Polar struct {
	Range float64 // Distance from the Sun in AU
	Lon   float64 // Ecliptic longitude in radians, [0, 2π)
	Lat   float64 // Ecliptic latitude in radians (not used by the scene)
}

// Cartesian flattens the position onto the scene's horizontal plane:
// x = range·cos(lon), y = 0, z = range·sin(lon).
func (p Polar) Cartesian() astro.Vec3 {
	return astro.Vec3{
		X: p.Range * math.Cos(p.Lon),
		Y: 0,
		Z: p.Range * math.Sin(p.Lon),
	}
}

// Tangent returns the unit vector along the direction of prograde motion
// on the flattened plane: (-sin(lon), 0, cos(lon)).
func (p Polar) Tangent() astro.Vec3 {
	return astro.Vec3{X: -math.Sin(p.Lon), Y: 0, Z: math.Cos(p.Lon)}
}

// Model defines the interface for ephemeris sources.
type Model interface {
	// Name returns the model name for display/logging.
	Name() string

	// Has reports whether the model can place the named body.
	Has(name string) bool

	// Position returns the body's heliocentric position at the Julian date.
	// Unknown names return an error wrapping ErrUnknownBody.
	Position(name string, jd float64) (Polar, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeKepler   Mode = iota // Mean orbital elements (default, no data files)
	ModeVSOP87               // VSOP87B series from a data directory
	ModeHorizons             // JPL Horizons web API
	ModeAuto                 // Try Horizons, fall back to Kepler
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeKepler:
		return "kepler"
	case ModeVSOP87:
		return "vsop87"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown input selects ModeKepler.
func ParseMode(s string) Mode {
	switch s {
	case "vsop87":
		return ModeVSOP87
	case "horizons":
		return ModeHorizons
	case "auto":
		return ModeAuto
	default:
		return ModeKepler
	}
}

// ValidMode reports whether s names a known mode.
func ValidMode(s string) bool {
	switch s {
	case "kepler", "vsop87", "horizons", "auto":
		return true
	}
	return false
}

func normalizeRad(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
