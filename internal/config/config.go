// Package config loads ls-orrery settings from defaults, an optional TOML
// file and LS_ORRERY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/sim"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "LS_ORRERY_"

// Config holds every runtime setting.
type Config struct {
	Ephem            string        `env:"EPHEM"`
	VSOP87Dir        string        `env:"VSOP87_DIR"`
	HorizonsURL      string        `env:"HORIZONS_URL"`
	HorizonsInterval time.Duration `env:"HORIZONS_INTERVAL"`

	Date   string `env:"DATE"` // YYYY-MM-DD, empty for now
	FPS    int    `env:"FPS"`
	Labels bool   `env:"LABELS"`
	Orbits bool   `env:"ORBITS"`

	LogLevel    string `env:"LOG_LEVEL"`
	LogFile     string `env:"LOG_FILE"`
	MetricsAddr string `env:"METRICS_ADDR"`

	FlyDuration time.Duration `env:"FLY_DURATION"`

	G              float64 `env:"G"`
	TimeScale      float64 `env:"TIME_SCALE"`
	MaxVelocity    float64 `env:"MAX_VELOCITY"`
	ScaleFactor    float64 `env:"SCALE_FACTOR"`
	SatelliteScale float64 `env:"SATELLITE_SCALE"`
	MinSeparation  float64 `env:"MIN_SEPARATION"`
	ResyncOnJump   bool    `env:"RESYNC_ON_JUMP"`

	// Bodies replaces the built-in catalog when non-empty.
	Bodies []body.Descriptor
}

// Default returns the built-in configuration.
func Default() Config {
	p := sim.DefaultParams()
	return Config{
		Ephem:            ephem.ModeKepler.String(),
		HorizonsURL:      ephem.HorizonsAPIURL,
		HorizonsInterval: ephem.DefaultRequestInterval,
		FPS:              30,
		Labels:           true,
		Orbits:           true,
		LogLevel:         "info",
		FlyDuration:      2 * time.Second,
		G:                p.G,
		TimeScale:        p.TimeScale,
		MaxVelocity:      p.MaxVelocity,
		ScaleFactor:      p.ScaleFactor,
		SatelliteScale:   p.SatelliteScale,
		MinSeparation:    p.MinSeparation,
		ResyncOnJump:     p.ResyncVelocityOnJump,
	}
}

// Load builds a config from defaults, the TOML file at path (skipped when
// path is empty) and the environment. A nil environ reads the process
// environment.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(environ); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Params returns the integrator and placement parameters.
func (c Config) Params() sim.Params {
	return sim.Params{
		G:                    c.G,
		TimeScale:            c.TimeScale,
		MaxVelocity:          c.MaxVelocity,
		ScaleFactor:          c.ScaleFactor,
		SatelliteScale:       c.SatelliteScale,
		MinSeparation:        c.MinSeparation,
		ResyncVelocityOnJump: c.ResyncOnJump,
	}
}

// Mode returns the parsed ephemeris mode.
func (c Config) Mode() ephem.Mode {
	return ephem.ParseMode(c.Ephem)
}

// Catalog returns the configured bodies, or the built-in catalog.
func (c Config) Catalog() []body.Descriptor {
	if len(c.Bodies) == 0 {
		return body.DefaultCatalog()
	}
	out := make([]body.Descriptor, len(c.Bodies))
	copy(out, c.Bodies)
	return out
}

// StartTime returns the configured start date, or now when unset.
func (c Config) StartTime(now time.Time) (time.Time, error) {
	if strings.TrimSpace(c.Date) == "" {
		return now, nil
	}
	t, err := astro.ParseDate(strings.TrimSpace(c.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: want YYYY-MM-DD", ErrInvalidConfig, c.Date)
	}
	return t, nil
}

// Validate reports the first setting that cannot run.
func (c Config) Validate() error {
	switch {
	case !ephem.ValidMode(c.Ephem):
		return fmt.Errorf("%w: unknown ephemeris mode %q", ErrInvalidConfig, c.Ephem)
	case ephem.ParseMode(c.Ephem) == ephem.ModeVSOP87 && c.VSOP87Dir == "":
		return fmt.Errorf("%w: vsop87 mode needs a data directory", ErrInvalidConfig)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d out of range 1-240", ErrInvalidConfig, c.FPS)
	case c.MaxVelocity <= 0:
		return fmt.Errorf("%w: max velocity must be positive", ErrInvalidConfig)
	case c.TimeScale < 0:
		return fmt.Errorf("%w: time scale must not be negative", ErrInvalidConfig)
	case c.ScaleFactor <= 0:
		return fmt.Errorf("%w: scale factor must be positive", ErrInvalidConfig)
	case c.SatelliteScale <= 0:
		return fmt.Errorf("%w: satellite scale must be positive", ErrInvalidConfig)
	case c.MinSeparation < 0:
		return fmt.Errorf("%w: min separation must not be negative", ErrInvalidConfig)
	case c.HorizonsInterval < 0:
		return fmt.Errorf("%w: horizons interval must not be negative", ErrInvalidConfig)
	case c.FlyDuration < 0:
		return fmt.Errorf("%w: fly duration must not be negative", ErrInvalidConfig)
	}
	if _, err := c.StartTime(time.Now()); err != nil {
		return err
	}
	if len(c.Bodies) > 0 {
		if err := body.ValidateCatalog(c.Bodies); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ParseColor parses "#rrggbb" (or "rrggbb") into 0xRRGGBB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}
