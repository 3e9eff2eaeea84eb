package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/litescript/ls-orrery/internal/body"
)

type fileConfig struct {
	Ephem       string `toml:"ephem"`
	VSOP87Dir   string `toml:"vsop87_dir"`
	Date        string `toml:"date"`
	FPS         int    `toml:"fps"`
	Labels      bool   `toml:"labels"`
	Orbits      bool   `toml:"orbits"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	MetricsAddr string `toml:"metrics_addr"`
	FlyDuration string `toml:"fly_duration"`

	Horizons struct {
		URL      string `toml:"url"`
		Interval string `toml:"interval"`
	} `toml:"horizons"`

	Physics struct {
		G              float64 `toml:"g"`
		TimeScale      float64 `toml:"time_scale"`
		MaxVelocity    float64 `toml:"max_velocity"`
		ScaleFactor    float64 `toml:"scale_factor"`
		SatelliteScale float64 `toml:"satellite_scale"`
		MinSeparation  float64 `toml:"min_separation"`
		ResyncOnJump   bool    `toml:"resync_on_jump"`
	} `toml:"physics"`

	Bodies []fileBody `toml:"bodies"`
}

type fileBody struct {
	Name     string  `toml:"name"`
	Radius   float64 `toml:"radius"`
	Distance float64 `toml:"distance"`
	Color    string  `toml:"color"`
	Mass     float64 `toml:"mass"`
	Speed    float64 `toml:"speed"`
	Parent   string  `toml:"parent"`
	Kind     string  `toml:"kind"`
}

func (c *Config) mergeFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}

	if meta.IsDefined("ephem") {
		c.Ephem = strings.ToLower(strings.TrimSpace(raw.Ephem))
	}
	if meta.IsDefined("vsop87_dir") {
		c.VSOP87Dir = strings.TrimSpace(raw.VSOP87Dir)
	}
	if meta.IsDefined("date") {
		c.Date = strings.TrimSpace(raw.Date)
	}
	if meta.IsDefined("fps") {
		c.FPS = raw.FPS
	}
	if meta.IsDefined("labels") {
		c.Labels = raw.Labels
	}
	if meta.IsDefined("orbits") {
		c.Orbits = raw.Orbits
	}
	if meta.IsDefined("log_level") {
		c.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_file") {
		c.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("metrics_addr") {
		c.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("fly_duration") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FlyDuration))
		if err != nil {
			return fmt.Errorf("parse fly_duration: %w", err)
		}
		c.FlyDuration = d
	}

	if meta.IsDefined("horizons", "url") {
		c.HorizonsURL = strings.TrimSpace(raw.Horizons.URL)
	}
	if meta.IsDefined("horizons", "interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Horizons.Interval))
		if err != nil {
			return fmt.Errorf("parse horizons.interval: %w", err)
		}
		c.HorizonsInterval = d
	}

	if meta.IsDefined("physics", "g") {
		c.G = raw.Physics.G
	}
	if meta.IsDefined("physics", "time_scale") {
		c.TimeScale = raw.Physics.TimeScale
	}
	if meta.IsDefined("physics", "max_velocity") {
		c.MaxVelocity = raw.Physics.MaxVelocity
	}
	if meta.IsDefined("physics", "scale_factor") {
		c.ScaleFactor = raw.Physics.ScaleFactor
	}
	if meta.IsDefined("physics", "satellite_scale") {
		c.SatelliteScale = raw.Physics.SatelliteScale
	}
	if meta.IsDefined("physics", "min_separation") {
		c.MinSeparation = raw.Physics.MinSeparation
	}
	if meta.IsDefined("physics", "resync_on_jump") {
		c.ResyncOnJump = raw.Physics.ResyncOnJump
	}

	if meta.IsDefined("bodies") {
		bodies, err := convertBodies(raw.Bodies)
		if err != nil {
			return err
		}
		c.Bodies = bodies
	}
	return nil
}

func convertBodies(in []fileBody) ([]body.Descriptor, error) {
	out := make([]body.Descriptor, 0, len(in))
	for i, fb := range in {
		kind, err := body.ParseKind(fb.Kind)
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		var color uint32 = 0xffffff
		if fb.Color != "" {
			if color, err = ParseColor(fb.Color); err != nil {
				return nil, fmt.Errorf("bodies[%d]: %w", i, err)
			}
		}
		out = append(out, body.Descriptor{
			Name:     strings.TrimSpace(fb.Name),
			Radius:   fb.Radius,
			Distance: fb.Distance,
			Color:    color,
			Mass:     fb.Mass,
			Speed:    fb.Speed,
			Parent:   strings.TrimSpace(fb.Parent),
			Kind:     kind,
		})
	}
	return out, nil
}
