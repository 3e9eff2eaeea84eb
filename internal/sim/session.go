package sim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/state"
)

// Options configures NewSession. Zero fields take defaults.
type Options struct {
	Catalog     []body.Descriptor // Default: body.DefaultCatalog()
	Model       ephem.Model       // Default: ephem.NewKeplerModel()
	Params      *Params           // Default: DefaultParams()
	Time        time.Time         // Default: now
	Aspect      float64           // Default: 1
	FlyDuration time.Duration     // Default: camera.DefaultFlyDuration

	Logger  *logging.Logger    // Default: logging.Discard()
	Metrics *metrics.Collector // May be nil
	State   *state.Manager     // Default: a new manager
}

// Session is one running orrery: the body registry, the date it was
// placed for, the camera and everything the UI reads back.
type Session struct {
	reg    *body.Registry
	model  ephem.Model
	params Params
	jd     float64

	cam     camera.Camera
	fly     *camera.FlyTo
	flyBody body.ID

	selected body.ID
	frozen   map[body.ID]bool
	skipped  []string

	log     *logging.Logger
	metrics *metrics.Collector
	state   *state.Manager
}

// FrameStats reports what one Frame call did.
type FrameStats struct {
	StepStats
	FlyFinished bool
}

// NewSession validates the catalog and places every body for the
// starting date. Bodies the model cannot place are logged, recorded as
// skipped and left out of the scene together with their descendants.
func NewSession(opts Options) (*Session, error) {
	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = body.DefaultCatalog()
	}
	if err := body.ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	s := &Session{
		reg:      body.NewRegistry(),
		model:    opts.Model,
		params:   DefaultParams(),
		cam:      camera.New(opts.Aspect),
		fly:      camera.NewFlyTo(),
		flyBody:  body.NoParent,
		selected: body.NoParent,
		frozen:   make(map[body.ID]bool),
		log:      opts.Logger,
		metrics:  opts.Metrics,
		state:    opts.State,
	}
	if s.model == nil {
		s.model = ephem.NewKeplerModel()
	}
	if opts.Params != nil {
		s.params = *opts.Params
	}
	if opts.FlyDuration > 0 {
		s.fly.Duration = opts.FlyDuration
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.state == nil {
		s.state = state.NewManager(state.DefaultConfig())
	}

	start := opts.Time
	if start.IsZero() {
		start = time.Now()
	}
	s.jd = astro.JulianDate(start)

	s.build(body.OrderCatalog(catalog))
	if s.reg.Anchor() == body.NoParent {
		return nil, fmt.Errorf("%w: anchor could not be placed", body.ErrInvalidCatalog)
	}

	s.metrics.SetScene(s.reg.Len(), s.jd)
	s.log.Info("session ready: %d bodies, %d skipped, model %s, JD %.5f",
		s.reg.Len(), len(s.skipped), s.model.Name(), s.jd)
	return s, nil
}

func (s *Session) build(catalog []body.Descriptor) {
	ids := make(map[string]body.ID, len(catalog))

	for i := range catalog {
		desc := &catalog[i]

		parent := body.NoParent
		var parentPos astro.Vec3
		if desc.HasParent() {
			id, ok := ids[strings.ToLower(desc.Parent)]
			if !ok {
				s.skip(desc.Name, fmt.Errorf("parent %s not in scene", desc.Parent))
				continue
			}
			parent = id
			parentPos = s.reg.Get(id).Position
		}

		pl, err := s.place(desc, parentPos)
		if err != nil {
			s.skip(desc.Name, err)
			continue
		}

		id, err := s.reg.Add(*desc, parent)
		if err != nil {
			s.skip(desc.Name, err)
			continue
		}
		b := s.reg.Get(id)
		b.Position = pl.Position
		b.Velocity = pl.Velocity
		b.OrbitRadius = pl.OrbitRadius
		ids[strings.ToLower(desc.Name)] = id
	}
}

// place wraps Place with lookup metrics.
func (s *Session) place(desc *body.Descriptor, parentPos astro.Vec3) (Placement, error) {
	pl, err := Place(s.model, desc, s.jd, parentPos, s.params)
	if desc.Kind == body.KindPlanet {
		s.recordLookup(err)
	}
	return pl, err
}

func (s *Session) recordLookup(err error) {
	switch {
	case err == nil:
		s.metrics.RecordLookup(s.model.Name(), metrics.ResultOK)
	case errors.Is(err, ephem.ErrUnknownBody):
		s.metrics.RecordLookup(s.model.Name(), metrics.ResultUnknown)
	default:
		s.metrics.RecordLookup(s.model.Name(), metrics.ResultError)
	}
}

func (s *Session) skip(name string, err error) {
	s.log.Warn("skipping %s: %v", name, err)
	s.skipped = append(s.skipped, name)
	s.state.AddEvent(state.Event{
		Type:       state.EventBodySkipped,
		Body:       name,
		JulianDate: s.jd,
		Detail:     err.Error(),
	})
}

// Registry returns the session's bodies.
func (s *Session) Registry() *body.Registry { return s.reg }

// Camera returns the session camera.
func (s *Session) Camera() *camera.Camera { return &s.cam }

// FlyTo returns the camera animation.
func (s *Session) FlyTo() *camera.FlyTo { return s.fly }

// Model returns the ephemeris model.
func (s *Session) Model() ephem.Model { return s.model }

// Params returns the session constants.
func (s *Session) Params() Params { return s.params }

// State returns the event log and frame history.
func (s *Session) State() *state.Manager { return s.state }

// JulianDate returns the date bodies were last placed for.
func (s *Session) JulianDate() float64 { return s.jd }

// Time returns JulianDate as a UTC time.
func (s *Session) Time() time.Time { return astro.TimeFromJulian(s.jd) }

// Skipped returns the names of bodies left out of the scene.
func (s *Session) Skipped() []string {
	out := make([]string, len(s.skipped))
	copy(out, s.skipped)
	return out
}

// Selected returns the selected body, if any.
func (s *Session) Selected() (body.ID, bool) {
	return s.selected, s.selected != body.NoParent
}

// Freeze excludes a body from integration, or includes it again.
func (s *Session) Freeze(id body.ID, frozen bool) {
	if frozen {
		s.frozen[id] = true
	} else {
		delete(s.frozen, id)
	}
}

func (s *Session) isFrozen(id body.ID) bool {
	return s.frozen[id]
}

// SetAspect updates the camera after a viewport resize.
func (s *Session) SetAspect(aspect float64) {
	s.cam.SetAspect(aspect)
}

// ResetCamera cancels any fly-to and restores the default view.
func (s *Session) ResetCamera() {
	if s.fly.Cancel() {
		s.flyCancelled()
	}
	s.cam.Reset()
}

// Frame advances the simulation by dt seconds: one integrator step, then
// one fly-to step that keeps the camera aimed at the moving target.
func (s *Session) Frame(dt float64) FrameStats {
	start := time.Now()
	fs := FrameStats{StepStats: Integrate(s.reg, s.params, dt, s.isFrozen)}
	fs.FlyFinished = s.AnimateCamera(dt)

	if dt > 0 {
		s.metrics.RecordFrame(fs.Clamped, time.Since(start))
		s.state.RecordFrame(state.FrameSample{Timestamp: start, DT: dt, Clamped: fs.Clamped})
	}
	return fs
}

// AnimateCamera advances only the fly-to, aiming at the target body's
// current position. It reports whether the animation finished. A paused
// UI calls it in place of Frame.
func (s *Session) AnimateCamera(dt float64) bool {
	if !s.fly.Active() {
		return false
	}
	if b := s.reg.Get(s.flyBody); b != nil {
		s.fly.Track(b.Position)
	}
	if !s.fly.Step(&s.cam, dt) {
		return false
	}
	s.metrics.RecordFlyTo(metrics.FlyCompleted)
	s.state.AddEvent(state.Event{Type: state.EventFlyToDone, Body: s.bodyName(s.flyBody)})
	return true
}

// SetDate repositions every body for t. See SetJulianDate.
func (s *Session) SetDate(t time.Time) error {
	return s.SetJulianDate(astro.JulianDate(t))
}

// SetJulianDate repositions every body for jd, looking positions up on
// the calling goroutine. See PlanDate for doing the lookups elsewhere.
func (s *Session) SetJulianDate(jd float64) error {
	return s.ApplyDate(s.PlanDate(jd))
}

// DatePlan carries the ephemeris lookups for a date jump. PlanDate
// creates it, Resolve fills it (safe to run off the UI goroutine, since it
// touches only the model) and ApplyDate moves the bodies.
type DatePlan struct {
	JD      float64
	model    ephem.Model
	lookups  map[body.ID]*dateLookup
	resolved bool
}

type dateLookup struct {
	name  string
	polar ephem.Polar
	err   error
}

// PlanDate lists the lookups a jump to jd needs.
func (s *Session) PlanDate(jd float64) *DatePlan {
	p := &DatePlan{JD: jd, model: s.model, lookups: make(map[body.ID]*dateLookup)}
	s.reg.Each(func(b *body.State) {
		if b.Desc.Kind == body.KindPlanet {
			p.lookups[b.ID] = &dateLookup{name: b.Desc.Name}
		}
	})
	return p
}

// Resolve queries the model for every planned body.
func (p *DatePlan) Resolve() {
	for _, l := range p.lookups {
		l.polar, l.err = p.model.Position(l.name, p.JD)
		if l.err != nil {
			l.err = fmt.Errorf("place %s: %w", l.name, l.err)
		}
	}
	p.resolved = true
}

// ApplyDate repositions every body for a resolved plan. Planets are placed
// from the plan, satellites relative to their parent's new position and
// the anchor stays at the origin. With ResyncVelocityOnJump, velocities
// are reset to their initial values; otherwise they carry over. Bodies
// the plan could not place keep their current state and are reported in
// the returned error. An unresolved plan is resolved first.
func (s *Session) ApplyDate(p *DatePlan) error {
	if !p.resolved {
		p.Resolve()
	}
	s.jd = p.JD
	var errs []error

	var visit func(parent *body.State)
	visit = func(parent *body.State) {
		for _, id := range s.reg.Children(parent.ID) {
			b := s.reg.Get(id)
			var parentPos astro.Vec3
			if b.HasParent() {
				parentPos = parent.Position
			}
			if err := s.replace(b, p, parentPos); err != nil {
				s.log.Warn("date jump: keeping %s in place: %v", b.Desc.Name, err)
				errs = append(errs, err)
			}
			visit(b)
		}
	}
	visit(s.reg.Get(s.reg.Anchor()))

	s.metrics.SetScene(s.reg.Len(), p.JD)
	s.state.AddEvent(state.Event{
		Type:       state.EventDateJump,
		JulianDate: p.JD,
		Detail:     astro.TimeFromJulian(p.JD).Format(time.DateOnly),
	})
	s.log.Debug("date jump to JD %.5f", p.JD)
	return errors.Join(errs...)
}

func (s *Session) replace(b *body.State, p *DatePlan, parentPos astro.Vec3) error {
	var pl Placement
	if l, ok := p.lookups[b.ID]; ok {
		s.recordLookup(l.err)
		if l.err != nil {
			return l.err
		}
		pl = placePolar(b.Desc, l.polar, parentPos, s.params)
	} else {
		var err error
		if pl, err = s.place(b.Desc, parentPos); err != nil {
			return err
		}
	}

	b.Position = pl.Position
	b.OrbitRadius = pl.OrbitRadius
	if s.params.ResyncVelocityOnJump {
		b.Velocity = pl.Velocity
	}
	return nil
}

// Select flies the camera to the named body and selects it. Unknown
// names change nothing.
func (s *Session) Select(name string) bool {
	b, ok := s.reg.ByName(name)
	if !ok {
		return false
	}
	return s.SelectID(b.ID)
}

// SelectID flies the camera to a body and selects it.
func (s *Session) SelectID(id body.ID) bool {
	b := s.reg.Get(id)
	if b == nil {
		return false
	}

	if s.fly.Start(&s.cam, b.Position) {
		s.flyCancelled()
	}
	s.flyBody = id
	s.selected = id

	s.metrics.RecordFlyTo(metrics.FlyStarted)
	s.state.AddEvent(state.Event{Type: state.EventFlyToStarted, Body: b.Desc.Name})
	s.state.AddEvent(state.Event{Type: state.EventSelected, Body: b.Desc.Name})
	return true
}

func (s *Session) flyCancelled() {
	s.metrics.RecordFlyTo(metrics.FlyCancelled)
	s.state.AddEvent(state.Event{Type: state.EventFlyToCancelled, Body: s.bodyName(s.flyBody)})
}

// Cycle moves the selection by delta bodies in ID order, wrapping.
func (s *Session) Cycle(delta int) bool {
	n := s.reg.Len()
	if n == 0 {
		return false
	}
	cur := int(s.selected)
	if cur < 0 {
		cur = -1
		if delta < 0 {
			cur = 0
		}
	}
	next := ((cur+delta)%n + n) % n
	return s.SelectID(body.ID(next))
}

// Pick selects the body under a cell of a width×height grid. Clicking
// empty space changes nothing.
func (s *Session) Pick(col, row, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	ndcX, ndcY := camera.FromScreen(float64(col)+0.5, float64(row)+0.5, float64(width), float64(height))

	spheres := make([]camera.Sphere, 0, s.reg.Len())
	s.reg.Each(func(b *body.State) {
		spheres = append(spheres, camera.Sphere{Center: b.Position, Radius: b.Radius})
	})

	idx, ok := s.cam.Pick(ndcX, ndcY, height, spheres)
	if !ok {
		return false
	}
	id := body.ID(idx)
	s.state.AddEvent(state.Event{Type: state.EventPicked, Body: s.bodyName(id)})
	return s.SelectID(id)
}

func (s *Session) bodyName(id body.ID) string {
	if b := s.reg.Get(id); b != nil {
		return b.Desc.Name
	}
	return ""
}
