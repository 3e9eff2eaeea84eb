package astro

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"2024 new year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2460310.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDate(tt.time); got != tt.want {
				t.Errorf("JulianDate(%v) = %v, want %v", tt.time, got, tt.want)
			}
		})
	}
}

func TestJulianDateMatchesCalendarFormula(t *testing.T) {
	times := []time.Time{
		time.Date(1999, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 6, 30, 0, 0, time.UTC),
		time.Date(2031, 7, 4, 18, 0, 0, 0, time.UTC),
	}
	for _, tm := range times {
		got := JulianDate(tm)
		want := julian.TimeToJD(tm)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("JulianDate(%v) = %.8f, meeus = %.8f", tm, got, want)
		}
	}
}

func TestJulianDateIgnoresZone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	a := time.Date(2024, 1, 1, 5, 0, 0, 0, loc)
	b := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if JulianDate(a) != JulianDate(b) {
		t.Errorf("same instant in two zones gave %v and %v", JulianDate(a), JulianDate(b))
	}
}

func TestTimeFromJulianRoundTrip(t *testing.T) {
	tm := time.Date(2024, 6, 15, 13, 45, 30, 0, time.UTC)
	if got := TimeFromJulian(JulianDate(tm)); !got.Equal(tm) {
		t.Errorf("TimeFromJulian(JulianDate(t)) = %v, want %v", got, tm)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if JulianDate(got) != 2460310.5 {
		t.Errorf("JD of parsed date = %v, want 2460310.5", JulianDate(got))
	}

	if _, err := ParseDate("01/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
