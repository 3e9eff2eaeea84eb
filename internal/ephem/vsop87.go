package ephem

import (
	"fmt"
	"sync"

	"github.com/soniakeys/meeus/v3/planetposition"
)

// VSOP87Model evaluates the VSOP87B series. Planet files are read from
// dir on first use and kept for the life of the model.
type VSOP87Model struct {
	dir string

	mu      sync.Mutex
	planets map[int]*planetposition.V87Planet
}

// NewVSOP87Model creates a model reading VSOP87B.* files from dir.
func NewVSOP87Model(dir string) *VSOP87Model {
	return &VSOP87Model{
		dir:     dir,
		planets: make(map[int]*planetposition.V87Planet),
	}
}

// Name implements Model.
func (m *VSOP87Model) Name() string {
	return "vsop87"
}

// Has implements Model.
func (m *VSOP87Model) Has(name string) bool {
	_, ok := LookupTarget(name)
	return ok
}

// Position implements Model.
func (m *VSOP87Model) Position(name string, jd float64) (Polar, error) {
	t, ok := LookupTarget(name)
	if !ok {
		return Polar{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}

	p, err := m.load(t.Index)
	if err != nil {
		return Polar{}, fmt.Errorf("vsop87 %s: %w", t.Name, err)
	}

	l, b, r := p.Position(jd)
	return Polar{Range: r, Lon: normalizeRad(l.Rad()), Lat: b.Rad()}, nil
}

// Preload reads every planet file so that missing data fails at startup
// rather than on the first frame that needs it.
func (m *VSOP87Model) Preload() error {
	for _, t := range Planets {
		if _, err := m.load(t.Index); err != nil {
			return fmt.Errorf("vsop87 %s: %w", t.Name, err)
		}
	}
	return nil
}

func (m *VSOP87Model) load(index int) (*planetposition.V87Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.planets[index]; ok {
		return p, nil
	}
	p, err := planetposition.LoadPlanetPath(index, m.dir)
	if err != nil {
		return nil, err
	}
	m.planets[index] = p
	return p, nil
}
