package ephem

import (
	"errors"
	"testing"
)

func TestVSOP87ModelMissingData(t *testing.T) {
	m := NewVSOP87Model(t.TempDir())

	if m.Name() != "vsop87" {
		t.Errorf("Name() = %q, want vsop87", m.Name())
	}
	if !m.Has("Mars") || m.Has("Moon") {
		t.Errorf("Has(Mars), Has(Moon) = %v, %v, want true, false", m.Has("Mars"), m.Has("Moon"))
	}

	if _, err := m.Position("Mars", 2460310.5); err == nil {
		t.Error("Position with no data files should fail")
	} else if errors.Is(err, ErrUnknownBody) {
		t.Errorf("missing data reported as unknown body: %v", err)
	}

	if err := m.Preload(); err == nil {
		t.Error("Preload with no data files should fail")
	}
}

func TestVSOP87ModelUnknownBody(t *testing.T) {
	m := NewVSOP87Model(t.TempDir())
	_, err := m.Position("Vulcan", 2460310.5)
	if !errors.Is(err, ErrUnknownBody) {
		t.Errorf("Position(Vulcan) err = %v, want ErrUnknownBody", err)
	}
}
