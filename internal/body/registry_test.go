package body

import (
	"errors"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	ids := make(map[string]ID)
	for _, d := range DefaultCatalog() {
		parent := NoParent
		if d.HasParent() {
			parent = ids[d.Parent]
		}
		id, err := r.Add(d, parent)
		if err != nil {
			t.Fatalf("Add(%s): %v", d.Name, err)
		}
		ids[d.Name] = id
	}
	return r
}

func TestRegistryAdd(t *testing.T) {
	r := newTestRegistry(t)

	if r.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", r.Len())
	}
	if r.Anchor() != 0 {
		t.Errorf("Anchor() = %d, want 0", r.Anchor())
	}

	moon, ok := r.ByName("moon")
	if !ok {
		t.Fatal("ByName(moon) not found")
	}
	earth, _ := r.ByName("Earth")
	if moon.Parent != earth.ID {
		t.Errorf("Moon parent = %d, want Earth %d", moon.Parent, earth.ID)
	}
	if moon.Mass != 7.342e22 || moon.Radius != 0.2727 {
		t.Errorf("Moon mass/radius = %v/%v", moon.Mass, moon.Radius)
	}
}

func TestRegistryAddErrors(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name   string
		desc   Descriptor
		parent ID
	}{
		{"duplicate", Descriptor{Name: "EARTH"}, NoParent},
		{"bad parent", Descriptor{Name: "Phobos"}, ID(99)},
		{"second anchor", Descriptor{Name: "Sirius", Kind: KindAnchor}, NoParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(tt.desc, tt.parent)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("Add() err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
	if r.Len() != 10 {
		t.Errorf("failed adds changed Len() to %d", r.Len())
	}
}

func TestRegistryReference(t *testing.T) {
	r := newTestRegistry(t)
	sun, _ := r.ByName("Sun")
	earth, _ := r.ByName("Earth")
	moon, _ := r.ByName("Moon")

	tests := []struct {
		name string
		id   ID
		want ID
	}{
		{"anchor has none", sun.ID, NoParent},
		{"planet orbits anchor", earth.ID, sun.ID},
		{"satellite orbits parent", moon.ID, earth.ID},
		{"out of range", ID(42), NoParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Reference(tt.id); got != tt.want {
				t.Errorf("Reference(%d) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}

	if kids := r.Children(earth.ID); len(kids) != 1 || kids[0] != moon.ID {
		t.Errorf("Children(Earth) = %v, want [%d]", kids, moon.ID)
	}
	if kids := r.Children(sun.ID); len(kids) != 8 || kids[0] != 1 || kids[7] != 8 {
		t.Errorf("Children(Sun) = %v, want the eight planets", kids)
	}
	if kids := r.Children(moon.ID); len(kids) != 0 {
		t.Errorf("Children(Moon) = %v, want none", kids)
	}
	if kids := r.Children(NoParent); kids != nil {
		t.Errorf("Children(NoParent) = %v, want nil", kids)
	}
}

func TestRegistryDescriptorCopied(t *testing.T) {
	r := NewRegistry()
	d := Descriptor{Name: "Sun", Radius: 5, Mass: 1, Kind: KindAnchor}
	id, err := r.Add(d, NoParent)
	if err != nil {
		t.Fatal(err)
	}
	d.Name = "Changed"
	if got := r.Get(id).Desc.Name; got != "Sun" {
		t.Errorf("descriptor aliased caller copy: %q", got)
	}
	if r.Get(ID(3)) != nil {
		t.Error("Get(out of range) should be nil")
	}
}

func TestRegistryNames(t *testing.T) {
	r := newTestRegistry(t)
	names := r.Names()
	if names[0] != "Sun" || names[len(names)-1] != "Moon" {
		t.Errorf("Names() = %v", names)
	}
	count := 0
	r.Each(func(s *State) { count++ })
	if count != r.Len() {
		t.Errorf("Each visited %d, want %d", count, r.Len())
	}
}
