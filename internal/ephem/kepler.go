package ephem

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// KeplerModel places planets on their mean osculating orbits of date.
// It needs no data files; accuracy is a few arcminutes for the inner
// planets, which is far below what the scene can show.
type KeplerModel struct{}

// NewKeplerModel creates the default ephemeris model.
func NewKeplerModel() *KeplerModel {
	return &KeplerModel{}
}

// Name implements Model.
func (m *KeplerModel) Name() string {
	return "kepler"
}

// Has implements Model.
func (m *KeplerModel) Has(name string) bool {
	_, ok := LookupTarget(name)
	return ok
}

// Position implements Model.
func (m *KeplerModel) Position(name string, jd float64) (Polar, error) {
	t, ok := LookupTarget(name)
	if !ok {
		return Polar{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}

	// Mean elements have no node for Earth (it lies on the ecliptic of
	// date), so Earth is the Sun's geocentric position reversed.
	if t.Index == planetelements.Earth {
		return earthPosition(jd), nil
	}

	var el planetelements.Elements
	planetelements.Mean(t.Index, jd, &el)

	// Mean anomaly M = L - ϖ
	meanAnomaly := unit.Angle(normalizeRad(el.Lon.Rad() - el.Peri.Rad()))
	ecc := kepler.Kepler3(el.Ecc, meanAnomaly)
	trueAnomaly := kepler.True(ecc, el.Ecc)
	r := kepler.Radius(ecc, el.Ecc, el.Axis)

	// Argument of latitude u = ν + ω, with ω = ϖ - Ω
	node := el.Node.Rad()
	u := trueAnomaly.Rad() + el.Peri.Rad() - node
	sinU, cosU := math.Sincos(u)
	inc := el.Inc.Rad()

	return Polar{
		Range: r,
		Lon:   normalizeRad(node + math.Atan2(math.Cos(inc)*sinU, cosU)),
		Lat:   math.Asin(math.Sin(inc) * sinU),
	}, nil
}

func earthPosition(jd float64) Polar {
	T := base.J2000Century(jd)
	sunLon, _ := solar.True(T)
	return Polar{
		Range: solar.Radius(T),
		Lon:   normalizeRad(sunLon.Rad() + math.Pi),
	}
}
