package camera

import (
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin astro.Vec3
	Dir    astro.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) astro.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Ray returns the ray from the camera through the NDC point.
func (c Camera) Ray(ndcX, ndcY float64) Ray {
	right, up, forward := c.basis()
	t := c.tanHalfFOV()
	dir := forward.
		Add(right.Scale(ndcX * t * c.Aspect)).
		Add(up.Scale(ndcY * t))
	return Ray{Origin: c.Position, Dir: dir.Normalized()}
}

// Sphere is a pick target.
type Sphere struct {
	Center astro.Vec3
	Radius float64
}

// Intersect returns the distance along the ray to the first hit, or false.
func (r Ray) Intersect(s Sphere) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Pick casts a ray through the NDC point and returns the index of the
// nearest sphere it hits. Every sphere is treated as at least one row in
// radius at its depth so that distant bodies stay clickable on a
// character grid of the given height.
func (c Camera) Pick(ndcX, ndcY float64, rows int, spheres []Sphere) (int, bool) {
	ray := c.Ray(ndcX, ndcY)
	_, _, forward := c.basis()

	best := -1
	bestT := math.Inf(1)
	for i, s := range spheres {
		depth := s.Center.Sub(c.Position).Dot(forward)
		if depth < c.Near || depth > c.Far {
			continue
		}
		if minR := c.WorldPerRow(depth, rows); s.Radius < minR {
			s.Radius = minR
		}
		t, ok := ray.Intersect(s)
		if !ok || t >= bestT {
			continue
		}
		best, bestT = i, t
	}
	return best, best >= 0
}
