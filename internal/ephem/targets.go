package ephem

import (
	"strings"

	"github.com/soniakeys/meeus/v3/planetposition"
)

// Target maps a planet name onto the identifiers each model needs.
type Target struct {
	Name   string // Display name (e.g., "Earth")
	Index  int    // meeus planet index (planetposition.Mercury..Neptune)
	NAIFID int    // NAIF SPICE ID used by Horizons
}

// Planets is the list of bodies with ephemeris data.
var Planets = []Target{
	{Name: "Mercury", Index: planetposition.Mercury, NAIFID: 199},
	{Name: "Venus", Index: planetposition.Venus, NAIFID: 299},
	{Name: "Earth", Index: planetposition.Earth, NAIFID: 399},
	{Name: "Mars", Index: planetposition.Mars, NAIFID: 499},
	{Name: "Jupiter", Index: planetposition.Jupiter, NAIFID: 599},
	{Name: "Saturn", Index: planetposition.Saturn, NAIFID: 699},
	{Name: "Uranus", Index: planetposition.Uranus, NAIFID: 799},
	{Name: "Neptune", Index: planetposition.Neptune, NAIFID: 899},
}

// targetsByName maps lowercase names to targets.
var targetsByName = func() map[string]Target {
	m := make(map[string]Target, len(Planets))
	for _, t := range Planets {
		m[strings.ToLower(t.Name)] = t
	}
	return m
}()

// LookupTarget returns the target for a body name (case-insensitive).
func LookupTarget(name string) (Target, bool) {
	t, ok := targetsByName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}
