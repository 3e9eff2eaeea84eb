// Package body defines the static body catalog and the mutable body
// registry the simulation integrates.
package body

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog cannot form a scene.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Kind classifies how a body is placed and integrated.
type Kind int

const (
	KindPlanet    Kind = iota // Placed from ephemeris data, orbits its reference
	KindAnchor                // Fixed at the origin, never integrated
	KindSatellite             // Placed at a fixed offset from its parent
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindAnchor:
		return "anchor"
	case KindSatellite:
		return "satellite"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Empty input selects KindPlanet.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "planet":
		return KindPlanet, nil
	case "anchor", "star":
		return KindAnchor, nil
	case "satellite", "moon":
		return KindSatellite, nil
	default:
		return KindPlanet, fmt.Errorf("unknown body kind %q", s)
	}
}

// Descriptor holds the static facts about one body. It is never mutated
// once a registry has been built from it.
type Descriptor struct {
	Name     string  `json:"name"`
	Radius   float64 `json:"radius"`       // Scene units, Earth = 1
	Distance float64 `json:"distance"`     // Nominal distance, million km
	Color    uint32  `json:"color"`        // 0xRRGGBB
	Mass     float64 `json:"mass_kg"`      // kg
	Speed    float64 `json:"speed_km_s"`   // Nominal orbital speed, km/s
	Parent   string  `json:"parent,omitempty"`
	Kind     Kind    `json:"-"`
}

// HasParent reports whether the descriptor names a parent body.
func (d Descriptor) HasParent() bool {
	return d.Parent != ""
}

// EarthRadius is the scene radius of one Earth radius.
const EarthRadius = 1.0

// DefaultCatalog returns the built-in solar system: the Sun, the eight
// planets and the Moon.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{Name: "Sun", Radius: EarthRadius * 5, Distance: 0, Color: 0xffff00, Mass: 1.989e30, Speed: 0, Kind: KindAnchor},
		{Name: "Mercury", Radius: EarthRadius * 0.383, Distance: 10, Color: 0x8c7c6e, Mass: 3.285e23, Speed: 47.87},
		{Name: "Venus", Radius: EarthRadius * 0.949, Distance: 20, Color: 0xe39e1c, Mass: 4.867e24, Speed: 35.02},
		{Name: "Earth", Radius: EarthRadius, Distance: 30, Color: 0x6b93d6, Mass: 5.972e24, Speed: 29.78},
		{Name: "Mars", Radius: EarthRadius * 0.532, Distance: 45, Color: 0xc1440e, Mass: 6.39e23, Speed: 24.07},
		{Name: "Jupiter", Radius: EarthRadius * 11.21, Distance: 78, Color: 0xd8ca9d, Mass: 1.898e27, Speed: 13.07},
		{Name: "Saturn", Radius: EarthRadius * 9.45, Distance: 142, Color: 0xead6b8, Mass: 5.683e26, Speed: 9.69},
		{Name: "Uranus", Radius: EarthRadius * 4.01, Distance: 287, Color: 0xd1e7e7, Mass: 8.681e25, Speed: 6.81},
		{Name: "Neptune", Radius: EarthRadius * 3.88, Distance: 450, Color: 0x3b66cc, Mass: 1.024e26, Speed: 5.43},
		{Name: "Moon", Radius: EarthRadius * 0.2727, Distance: 0.00257, Color: 0xffffff, Mass: 7.342e22, Speed: 1.022, Parent: "Earth", Kind: KindSatellite},
	}
}

// ValidateCatalog checks that a catalog names each body once, has exactly
// one parentless anchor, gives every body a positive mass and radius, and
// that every parent exists without forming a cycle.
func ValidateCatalog(catalog []Descriptor) error {
	if len(catalog) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidCatalog)
	}

	byName := make(map[string]Descriptor, len(catalog))
	anchors := 0
	for _, d := range catalog {
		key := strings.ToLower(d.Name)
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: body with empty name", ErrInvalidCatalog)
		}
		if _, dup := byName[key]; dup {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidCatalog, d.Name)
		}
		if d.Mass <= 0 {
			return fmt.Errorf("%w: %s has non-positive mass", ErrInvalidCatalog, d.Name)
		}
		if d.Radius <= 0 {
			return fmt.Errorf("%w: %s has non-positive radius", ErrInvalidCatalog, d.Name)
		}
		if d.Kind == KindAnchor {
			anchors++
			if d.HasParent() {
				return fmt.Errorf("%w: anchor %s cannot have a parent", ErrInvalidCatalog, d.Name)
			}
		}
		if d.Kind == KindSatellite && !d.HasParent() {
			return fmt.Errorf("%w: satellite %s has no parent", ErrInvalidCatalog, d.Name)
		}
		byName[key] = d
	}
	if anchors != 1 {
		return fmt.Errorf("%w: want exactly one anchor, got %d", ErrInvalidCatalog, anchors)
	}

	for _, d := range catalog {
		seen := map[string]bool{strings.ToLower(d.Name): true}
		for cur := d; cur.HasParent(); {
			key := strings.ToLower(cur.Parent)
			parent, ok := byName[key]
			if !ok {
				return fmt.Errorf("%w: %s has unknown parent %q", ErrInvalidCatalog, cur.Name, cur.Parent)
			}
			if seen[key] {
				return fmt.Errorf("%w: parent cycle through %s", ErrInvalidCatalog, d.Name)
			}
			seen[key] = true
			cur = parent
		}
	}
	return nil
}

// OrderCatalog returns the catalog with every parent ahead of its
// children, keeping the original order otherwise. The catalog must
// already be valid.
func OrderCatalog(catalog []Descriptor) []Descriptor {
	index := make(map[string]int, len(catalog))
	for i, d := range catalog {
		index[strings.ToLower(d.Name)] = i
	}

	out := make([]Descriptor, 0, len(catalog))
	placed := make([]bool, len(catalog))
	var visit func(i int)
	visit = func(i int) {
		if placed[i] {
			return
		}
		if d := catalog[i]; d.HasParent() {
			if p, ok := index[strings.ToLower(d.Parent)]; ok {
				visit(p)
			}
		}
		placed[i] = true
		out = append(out, catalog[i])
	}
	for i := range catalog {
		visit(i)
	}
	return out
}
