package ephem

import "errors"

// Fallback tries Primary and falls back to Secondary when the primary
// fails for any reason other than not knowing the body.
type Fallback struct {
	Primary   Model
	Secondary Model

	// OnFallback, if set, is called with the primary's error.
	OnFallback func(name string, err error)
}

// Name implements Model.
func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

// Has implements Model.
func (f *Fallback) Has(name string) bool {
	return f.Primary.Has(name) || f.Secondary.Has(name)
}

// Position implements Model.
func (f *Fallback) Position(name string, jd float64) (Polar, error) {
	p, err := f.Primary.Position(name, jd)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrUnknownBody) && !f.Secondary.Has(name) {
		return Polar{}, err
	}
	if f.OnFallback != nil {
		f.OnFallback(name, err)
	}
	return f.Secondary.Position(name, jd)
}
