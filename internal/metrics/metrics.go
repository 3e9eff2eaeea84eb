// Package metrics exposes simulation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orrery"

// Collector records simulation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	frames       prometheus.Counter
	clamps       prometheus.Counter
	stepDuration prometheus.Histogram
	ephemLookups *prometheus.CounterVec
	flyTo        *prometheus.CounterVec
	bodies       prometheus.Gauge
	julianDate   prometheus.Gauge
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Integrator steps taken",
		}),
		clamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "velocity_clamps_total",
			Help:      "Body velocities clamped to the ceiling",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_step_duration_seconds",
			Help:      "Time spent integrating one frame",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
		}),
		ephemLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ephemeris_lookups_total",
			Help:      "Ephemeris position lookups",
		}, []string{"model", "result"}),
		flyTo: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flyto_total",
			Help:      "Camera fly-to animations by outcome",
		}, []string{"outcome"}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bodies",
			Help:      "Bodies in the scene",
		}),
		julianDate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "julian_date",
			Help:      "Julian date the scene was last placed for",
		}),
	}

	reg.MustRegister(c.frames, c.clamps, c.stepDuration, c.ephemLookups, c.flyTo, c.bodies, c.julianDate)
	return c
}

// RecordFrame records one integrator step.
func (c *Collector) RecordFrame(clamped int, d time.Duration) {
	if c == nil {
		return
	}
	c.frames.Inc()
	if clamped > 0 {
		c.clamps.Add(float64(clamped))
	}
	c.stepDuration.Observe(d.Seconds())
}

// Lookup results.
const (
	ResultOK      = "ok"
	ResultUnknown = "unknown"
	ResultError   = "error"
)

// RecordLookup records one ephemeris lookup.
func (c *Collector) RecordLookup(model, result string) {
	if c == nil {
		return
	}
	c.ephemLookups.WithLabelValues(model, result).Inc()
}

// Fly-to outcomes.
const (
	FlyStarted   = "started"
	FlyCompleted = "completed"
	FlyCancelled = "cancelled"
)

// RecordFlyTo records a fly-to transition.
func (c *Collector) RecordFlyTo(outcome string) {
	if c == nil {
		return
	}
	c.flyTo.WithLabelValues(outcome).Inc()
}

// SetScene records the body count and the Julian date of placement.
func (c *Collector) SetScene(bodies int, jd float64) {
	if c == nil {
		return
	}
	c.bodies.Set(float64(bodies))
	c.julianDate.Set(jd)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
