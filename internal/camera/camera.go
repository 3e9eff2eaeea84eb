// Package camera implements a perspective camera for the terminal scene:
// world-to-screen projection, picking rays, orbit controls and the
// fly-to animation.
package camera

import (
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Default camera placement.
var (
	DefaultPosition = astro.Vec3{X: 0, Y: 500, Z: 500}
	DefaultTarget   = astro.Vec3{}
	DefaultUp       = astro.Vec3{Y: 1}
)

const (
	DefaultFOV  = 75.0 // Vertical field of view, degrees
	DefaultNear = 0.1
	DefaultFar  = 5000.0

	minDistance = 1.0 // Closest dolly distance to the target
)

// Camera is a look-at perspective camera. FOV is vertical, in degrees;
// Aspect is viewport width over height in the same physical units.
type Camera struct {
	Position astro.Vec3
	Target   astro.Vec3
	Up       astro.Vec3
	FOV      float64
	Aspect   float64
	Near     float64
	Far      float64
}

// New returns a camera at the default position looking at the origin.
func New(aspect float64) Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		Position: DefaultPosition,
		Target:   DefaultTarget,
		Up:       DefaultUp,
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// Reset restores the default placement, keeping aspect and clip planes.
func (c *Camera) Reset() {
	c.Position = DefaultPosition
	c.Target = DefaultTarget
	c.Up = DefaultUp
}

// SetAspect updates the aspect ratio after a resize.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// LookAt points the camera at target without moving it.
func (c *Camera) LookAt(target astro.Vec3) {
	c.Target = target
}

// basis returns the right, up and forward unit vectors of the view.
func (c Camera) basis() (right, up, forward astro.Vec3) {
	forward = c.Target.Sub(c.Position).Normalized()
	if forward.IsZero() {
		forward = astro.Vec3{Z: -1}
	}
	worldUp := c.Up
	if worldUp.IsZero() {
		worldUp = DefaultUp
	}
	right = forward.Cross(worldUp)
	if right.Norm() < 1e-9 {
		// Looking straight along Up; borrow the -Z axis.
		right = forward.Cross(astro.Vec3{Z: -1})
	}
	right = right.Normalized()
	up = right.Cross(forward)
	return right, up, forward
}

func (c Camera) tanHalfFOV() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

// NDC is a point in normalized device coordinates: X and Y in [-1, 1]
// when on screen, Y up. Depth is the distance along the view axis.
type NDC struct {
	X, Y  float64
	Depth float64
}

// Project maps a world point into NDC. ok is false when the point lies
// outside the near/far range, including anything behind the camera.
func (c Camera) Project(p astro.Vec3) (NDC, bool) {
	right, up, forward := c.basis()
	d := p.Sub(c.Position)

	z := d.Dot(forward)
	if z < c.Near || z > c.Far {
		return NDC{Depth: z}, false
	}
	t := c.tanHalfFOV()
	return NDC{
		X:     d.Dot(right) / (z * t * c.Aspect),
		Y:     d.Dot(up) / (z * t),
		Depth: z,
	}, true
}

// ToScreen converts NDC to viewport coordinates with the origin top-left.
func ToScreen(n NDC, width, height float64) (x, y float64) {
	x = (n.X*0.5 + 0.5) * width
	y = (-n.Y*0.5 + 0.5) * height
	return x, y
}

// FromScreen converts viewport coordinates back to NDC X/Y.
func FromScreen(x, y, width, height float64) (ndcX, ndcY float64) {
	return x/width*2 - 1, -(y/height*2 - 1)
}

// OnScreen reports whether the projected point falls inside the viewport.
func (n NDC) OnScreen() bool {
	return n.X >= -1 && n.X <= 1 && n.Y >= -1 && n.Y <= 1
}

// ProjectedRadius returns the on-screen radius, in rows of a viewport
// with the given height, of a sphere of radius r at depth.
func (c Camera) ProjectedRadius(r, depth float64, rows int) float64 {
	if depth <= 0 {
		return 0
	}
	return r / (depth * c.tanHalfFOV()) * float64(rows) / 2
}

// WorldPerRow returns the world height covered by one viewport row at
// the given depth.
func (c Camera) WorldPerRow(depth float64, rows int) float64 {
	if rows <= 0 {
		return 0
	}
	return 2 * depth * c.tanHalfFOV() / float64(rows)
}

// Orbit rotates the camera around its target by the given azimuth and
// elevation deltas (radians). Elevation stays short of the poles.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	off := c.Position.Sub(c.Target)
	r := off.Norm()
	if r == 0 {
		return
	}
	az := math.Atan2(off.X, off.Z) + dAzimuth
	el := math.Asin(off.Y/r) + dElevation
	const limit = math.Pi/2 - 0.01
	el = math.Max(-limit, math.Min(limit, el))

	c.Position = c.Target.Add(astro.Vec3{
		X: r * math.Cos(el) * math.Sin(az),
		Y: r * math.Sin(el),
		Z: r * math.Cos(el) * math.Cos(az),
	})
}

// Dolly scales the distance to the target by factor (< 1 moves closer).
func (c *Camera) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	off := c.Position.Sub(c.Target)
	r := off.Norm() * factor
	if r < minDistance {
		r = minDistance
	}
	if r > c.Far/2 {
		r = c.Far / 2
	}
	c.Position = c.Target.Add(off.WithLength(r))
}
