package camera

import (
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Fly-to defaults.
var (
	DefaultFlyOffset   = astro.Vec3{X: 100, Y: 100, Z: 100}
	DefaultFlyDuration = 2 * time.Second
)

// FlyState is the state of a FlyTo animation.
type FlyState int

const (
	FlyIdle FlyState = iota
	FlyAnimating
)

func (s FlyState) String() string {
	if s == FlyAnimating {
		return "animating"
	}
	return "idle"
}

// EaseOutQuad is quadratic ease-out on t in [0, 1].
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// FlyTo animates the camera towards a point offset from a target. Only
// one animation runs at a time: starting a new one cancels the current
// one and continues from wherever the camera is.
type FlyTo struct {
	Offset   astro.Vec3
	Duration time.Duration

	state   FlyState
	from    astro.Vec3
	to      astro.Vec3
	target  astro.Vec3
	elapsed time.Duration
}

// NewFlyTo creates an idle animation with the default offset and duration.
func NewFlyTo() *FlyTo {
	return &FlyTo{
		Offset:   DefaultFlyOffset,
		Duration: DefaultFlyDuration,
	}
}

// State returns the current state.
func (f *FlyTo) State() FlyState {
	return f.state
}

// Active reports whether an animation is in flight.
func (f *FlyTo) Active() bool {
	return f.state == FlyAnimating
}

// Progress returns the linear progress of the current animation in [0, 1].
// An idle animation reports 1.
func (f *FlyTo) Progress() float64 {
	if f.state == FlyIdle || f.Duration <= 0 {
		return 1
	}
	p := float64(f.elapsed) / float64(f.Duration)
	if p > 1 {
		p = 1
	}
	return p
}

// Destination returns where the current (or last) animation ends.
func (f *FlyTo) Destination() astro.Vec3 {
	return f.to
}

// Start begins flying cam towards target+Offset and points it at target.
// It reports whether an in-flight animation was cancelled.
func (f *FlyTo) Start(cam *Camera, target astro.Vec3) (cancelled bool) {
	cancelled = f.Cancel()
	f.state = FlyAnimating
	f.from = cam.Position
	f.to = target.Add(f.Offset)
	f.target = target
	f.elapsed = 0
	cam.LookAt(target)
	return cancelled
}

// Track moves the look-at point of the current animation, for targets
// that keep moving while the camera flies.
func (f *FlyTo) Track(target astro.Vec3) {
	if f.state == FlyAnimating {
		f.target = target
	}
}

// Cancel stops the animation where it is. It reports whether one was
// running.
func (f *FlyTo) Cancel() bool {
	if f.state != FlyAnimating {
		return false
	}
	f.state = FlyIdle
	return true
}

// Step advances the animation by dt seconds and reports whether it
// finished during this step. Idle animations and non-positive dt leave
// the camera untouched.
func (f *FlyTo) Step(cam *Camera, dt float64) (finished bool) {
	if f.state != FlyAnimating || dt <= 0 {
		return false
	}

	f.elapsed += time.Duration(dt * float64(time.Second))
	if f.Duration <= 0 || f.elapsed >= f.Duration {
		cam.Position = f.to
		cam.LookAt(f.target)
		f.state = FlyIdle
		return true
	}

	t := EaseOutQuad(float64(f.elapsed) / float64(f.Duration))
	cam.Position = f.from.Lerp(f.to, t)
	cam.LookAt(f.target)
	return false
}
