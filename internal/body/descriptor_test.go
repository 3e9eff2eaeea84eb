package body

import (
	"errors"
	"testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	cat := DefaultCatalog()
	if err := ValidateCatalog(cat); err != nil {
		t.Fatalf("ValidateCatalog(DefaultCatalog()) = %v", err)
	}
	if len(cat) != 10 {
		t.Errorf("catalog size = %d, want 10", len(cat))
	}
	if cat[0].Name != "Sun" || cat[0].Kind != KindAnchor {
		t.Errorf("first body = %s (%s), want Sun anchor", cat[0].Name, cat[0].Kind)
	}
}

func TestDefaultCatalogEarth(t *testing.T) {
	for _, d := range DefaultCatalog() {
		if d.Name != "Earth" {
			continue
		}
		if d.Mass != 5.972e24 {
			t.Errorf("Earth mass = %v", d.Mass)
		}
		if d.Speed != 29.78 {
			t.Errorf("Earth speed = %v", d.Speed)
		}
		if d.Radius != EarthRadius {
			t.Errorf("Earth radius = %v", d.Radius)
		}
		return
	}
	t.Fatal("Earth missing from catalog")
}

func TestValidateCatalog(t *testing.T) {
	sun := Descriptor{Name: "Sun", Radius: 5, Mass: 1, Kind: KindAnchor}
	earth := Descriptor{Name: "Earth", Radius: 1, Mass: 1}
	moon := Descriptor{Name: "Moon", Radius: 0.27, Mass: 1, Parent: "Earth", Kind: KindSatellite}

	tests := []struct {
		name    string
		catalog []Descriptor
		wantErr bool
	}{
		{"valid", []Descriptor{sun, earth, moon}, false},
		{"child before parent", []Descriptor{moon, sun, earth}, false},
		{"empty", nil, true},
		{"no anchor", []Descriptor{earth, moon}, true},
		{"two anchors", []Descriptor{sun, {Name: "Sun2", Radius: 1, Mass: 1, Kind: KindAnchor}}, true},
		{"duplicate name", []Descriptor{sun, earth, {Name: "EARTH", Radius: 1, Mass: 1}}, true},
		{"missing parent", []Descriptor{sun, moon}, true},
		{"zero mass", []Descriptor{sun, {Name: "Ghost", Radius: 1}}, true},
		{"zero radius", []Descriptor{sun, {Name: "Dot", Mass: 1}}, true},
		{"empty name", []Descriptor{sun, {Radius: 1, Mass: 1}}, true},
		{"satellite without parent", []Descriptor{sun, {Name: "Lost", Radius: 1, Mass: 1, Kind: KindSatellite}}, true},
		{"anchor with parent", []Descriptor{{Name: "Sun", Radius: 1, Mass: 1, Kind: KindAnchor, Parent: "Earth"}, earth}, true},
		{
			"cycle",
			[]Descriptor{
				sun,
				{Name: "A", Radius: 1, Mass: 1, Parent: "B"},
				{Name: "B", Radius: 1, Mass: 1, Parent: "A"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.catalog)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("error %v does not wrap ErrInvalidCatalog", err)
			}
		})
	}
}

func TestOrderCatalog(t *testing.T) {
	in := []Descriptor{
		{Name: "Phobos", Parent: "Mars"},
		{Name: "Sun"},
		{Name: "Deimos", Parent: "Mars"},
		{Name: "Mars"},
		{Name: "Probe", Parent: "Phobos"},
	}
	out := OrderCatalog(in)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}

	pos := make(map[string]int)
	for i, d := range out {
		pos[d.Name] = i
	}
	for _, d := range out {
		if d.HasParent() && pos[d.Parent] > pos[d.Name] {
			t.Errorf("%s placed before its parent %s: %v", d.Name, d.Parent, out)
		}
	}
	if out[0].Name != "Mars" {
		t.Errorf("first = %s, want Mars pulled ahead of Phobos", out[0].Name)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindPlanet, false},
		{"planet", KindPlanet, false},
		{"Anchor", KindAnchor, false},
		{"star", KindAnchor, false},
		{"satellite", KindSatellite, false},
		{"moon", KindSatellite, false},
		{"comet", KindPlanet, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
