package camera

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/astro"
)

func TestRayIntersect(t *testing.T) {
	ray := Ray{Origin: astro.Vec3{Z: 10}, Dir: astro.Vec3{Z: -1}}

	tests := []struct {
		name  string
		s     Sphere
		wantT float64
		hit   bool
	}{
		{"straight ahead", Sphere{Radius: 1}, 9, true},
		{"offset miss", Sphere{Center: astro.Vec3{X: 3}, Radius: 1}, 0, false},
		{"behind", Sphere{Center: astro.Vec3{Z: 20}, Radius: 1}, 0, false},
		{"inside", Sphere{Center: astro.Vec3{Z: 10}, Radius: 2}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ray.Intersect(tt.s)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestPickNearest(t *testing.T) {
	cam := New(1)
	// Two spheres on the view axis; the one nearer the camera wins.
	near := DefaultPosition.Scale(0.5)
	spheres := []Sphere{
		{Center: astro.Vec3{}, Radius: 5},
		{Center: near, Radius: 5},
	}

	idx, ok := cam.Pick(0, 0, 40, spheres)
	if !ok || idx != 1 {
		t.Errorf("Pick = %d, %v; want 1, true", idx, ok)
	}
}

func TestPickMiss(t *testing.T) {
	cam := New(1)
	spheres := []Sphere{{Center: astro.Vec3{}, Radius: 5}}

	if idx, ok := cam.Pick(0.9, 0.9, 40, spheres); ok {
		t.Errorf("Pick in empty space hit %d", idx)
	}
	if _, ok := cam.Pick(0, 0, 40, nil); ok {
		t.Error("Pick with no spheres should miss")
	}
}

func TestPickMinimumRadius(t *testing.T) {
	cam := New(1)
	tiny := []Sphere{{Center: astro.Vec3{}, Radius: 1e-6}}

	// Half a row off-centre on a 40-row grid still hits a tiny body.
	if _, ok := cam.Pick(0, 0.025, 40, tiny); !ok {
		t.Error("expected hit within one row of a tiny sphere")
	}
	// Several rows away does not.
	if _, ok := cam.Pick(0, 0.2, 40, tiny); ok {
		t.Error("expected miss several rows from a tiny sphere")
	}
}

func TestPickSkipsHidden(t *testing.T) {
	cam := New(1)
	behind := []Sphere{{Center: astro.Vec3{Y: 1000, Z: 1000}, Radius: 2000}}
	if _, ok := cam.Pick(0, 0, 40, behind); ok {
		t.Error("sphere behind the camera should not be picked")
	}
}
