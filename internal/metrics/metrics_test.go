package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFrame(0, time.Microsecond)
	c.RecordFrame(3, 2*time.Microsecond)
	c.RecordLookup("kepler", ResultOK)
	c.RecordLookup("kepler", ResultOK)
	c.RecordLookup("kepler", ResultUnknown)
	c.RecordFlyTo(FlyStarted)
	c.RecordFlyTo(FlyCancelled)
	c.SetScene(10, 2460310.5)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"frames", testutil.ToFloat64(c.frames), 2},
		{"clamps", testutil.ToFloat64(c.clamps), 3},
		{"lookups ok", testutil.ToFloat64(c.ephemLookups.WithLabelValues("kepler", ResultOK)), 2},
		{"lookups unknown", testutil.ToFloat64(c.ephemLookups.WithLabelValues("kepler", ResultUnknown)), 1},
		{"flyto cancelled", testutil.ToFloat64(c.flyTo.WithLabelValues(FlyCancelled)), 1},
		{"bodies", testutil.ToFloat64(c.bodies), 10},
		{"julian date", testutil.ToFloat64(c.julianDate), 2460310.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(c.stepDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestCollectorExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordFrame(1, time.Microsecond)

	expected := `
# HELP orrery_velocity_clamps_total Body velocities clamped to the ceiling
# TYPE orrery_velocity_clamps_total counter
orrery_velocity_clamps_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "orrery_velocity_clamps_total"); err != nil {
		t.Error(err)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	// None of these may panic.
	c.RecordFrame(5, time.Second)
	c.RecordLookup("kepler", ResultError)
	c.RecordFlyTo(FlyCompleted)
	c.SetScene(1, 0)
}
