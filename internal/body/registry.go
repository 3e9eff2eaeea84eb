package body

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-orrery/internal/astro"
)

// ID identifies a body within one registry. IDs are dense indices into the
// registry's arena and are never reused during a session.
type ID int

// NoParent marks a body that orbits the anchor directly.
const NoParent ID = -1

// State is the mutable per-frame state of one body.
type State struct {
	ID       ID
	Desc     *Descriptor
	Position astro.Vec3 // Scene units
	Velocity astro.Vec3 // Scene units per scaled second
	Mass     float64
	Radius   float64
	Parent   ID

	// OrbitRadius is the radius of the body's reference ring around its
	// parent (or the origin), fixed when the body is placed.
	OrbitRadius float64
}

// HasParent reports whether the body orbits another body than the anchor.
func (s *State) HasParent() bool {
	return s.Parent != NoParent
}

// Registry holds every body in the scene in insertion order. Parents are
// always added before their children, so iterating in ID order visits a
// parent before anything that references it.
type Registry struct {
	bodies []State
	byName map[string]ID
	anchor ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]ID),
		anchor: NoParent,
	}
}

// Add appends a body and returns its ID. The descriptor is copied; the
// registry owns the copy. The first KindAnchor body becomes the anchor.
func (r *Registry) Add(desc Descriptor, parent ID) (ID, error) {
	key := strings.ToLower(desc.Name)
	if _, dup := r.byName[key]; dup {
		return NoParent, fmt.Errorf("%w: duplicate body %q", ErrInvalidCatalog, desc.Name)
	}
	if parent != NoParent && !r.valid(parent) {
		return NoParent, fmt.Errorf("%w: %s has invalid parent id %d", ErrInvalidCatalog, desc.Name, parent)
	}
	if desc.Kind == KindAnchor && r.anchor != NoParent {
		return NoParent, fmt.Errorf("%w: second anchor %q", ErrInvalidCatalog, desc.Name)
	}

	d := desc
	id := ID(len(r.bodies))
	r.bodies = append(r.bodies, State{
		ID:     id,
		Desc:   &d,
		Mass:   d.Mass,
		Radius: d.Radius,
		Parent: parent,
	})
	r.byName[key] = id
	if d.Kind == KindAnchor {
		r.anchor = id
	}
	return id, nil
}

func (r *Registry) valid(id ID) bool {
	return id >= 0 && int(id) < len(r.bodies)
}

// Get returns the body with the given ID, or nil. The pointer stays valid
// until the next Add.
func (r *Registry) Get(id ID) *State {
	if !r.valid(id) {
		return nil
	}
	return &r.bodies[id]
}

// ByName looks a body up by name, ignoring case.
func (r *Registry) ByName(name string) (*State, bool) {
	id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &r.bodies[id], true
}

// Len returns the number of bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Each calls fn for every body in ID order.
func (r *Registry) Each(fn func(*State)) {
	for i := range r.bodies {
		fn(&r.bodies[i])
	}
}

// Names returns body names in ID order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.bodies))
	for i := range r.bodies {
		names[i] = r.bodies[i].Desc.Name
	}
	return names
}

// Anchor returns the anchor's ID, or NoParent when none has been added.
func (r *Registry) Anchor() ID {
	return r.anchor
}

// Reference returns the body id orbits: its parent if it has one,
// otherwise the anchor. The anchor's reference is NoParent.
func (r *Registry) Reference(id ID) ID {
	if !r.valid(id) || id == r.anchor {
		return NoParent
	}
	if p := r.bodies[id].Parent; p != NoParent {
		return p
	}
	return r.anchor
}

// Children returns the IDs of bodies that reference id, in ID order. The
// anchor's children are the bodies without a parent.
func (r *Registry) Children(id ID) []ID {
	if !r.valid(id) {
		return nil
	}
	var out []ID
	for i := range r.bodies {
		if r.Reference(ID(i)) == id {
			out = append(out, ID(i))
		}
	}
	return out
}
