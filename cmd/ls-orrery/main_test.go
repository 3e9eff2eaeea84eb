package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/sim"
)

func TestParseFlagsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.toml")
	content := "ephem = \"horizons\"\nfps = 60\nlog_level = \"warn\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, cli, err := parseFlags([]string{
		"-config", path,
		"-fps", "15",
		"-summary",
		"-frames", "10",
	}, map[string]string{"LS_ORRERY_LOG_LEVEL": "debug"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Ephem != "horizons" {
		t.Errorf("Ephem = %q, want file value", cfg.Ephem)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env value", cfg.LogLevel)
	}
	if cfg.FPS != 15 {
		t.Errorf("FPS = %d, want flag value", cfg.FPS)
	}
	if !cli.summary || cli.frames != 10 || !cli.headless() {
		t.Errorf("cli = %+v", cli)
	}
}

func TestParseFlagsUnsetFlagsKeepConfig(t *testing.T) {
	cfg, _, err := parseFlags(nil, map[string]string{"LS_ORRERY_EPHEM": "auto"})
	if err != nil {
		t.Fatal(err)
	}
	// The -ephem default must not clobber the environment.
	if cfg.Ephem != "auto" {
		t.Errorf("Ephem = %q, want auto", cfg.Ephem)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-warp"}},
		{"negative frames", []string{"-frames", "-1"}},
		{"bad mode", []string{"-ephem", "ptolemy"}},
		{"bad date", []string{"-date", "yesterday"}},
		{"missing config", []string{"-config", "/nonexistent/orrery.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseFlags(tt.args, map[string]string{}); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, _, err := parseFlags([]string{"-ephem", "ptolemy"}, map[string]string{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("bad mode err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"kepler", "kepler"},
		{"horizons", "horizons"},
		{"auto", "horizons+kepler"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := config.Default()
			cfg.Ephem = tt.mode
			m, err := newModel(cfg, logging.Discard())
			if err != nil {
				t.Fatal(err)
			}
			if m.Name() != tt.want {
				t.Errorf("Name = %q, want %q", m.Name(), tt.want)
			}
		})
	}

	t.Run("vsop87 without data", func(t *testing.T) {
		cfg := config.Default()
		cfg.Ephem = "vsop87"
		cfg.VSOP87Dir = t.TempDir()
		if _, err := newModel(cfg, logging.Discard()); err == nil {
			t.Error("expected error for empty data directory")
		}
	})

	t.Run("auto is a fallback", func(t *testing.T) {
		cfg := config.Default()
		cfg.Ephem = "auto"
		m, _ := newModel(cfg, logging.Discard())
		if _, ok := m.(*ephem.Fallback); !ok {
			t.Errorf("model = %T, want *ephem.Fallback", m)
		}
	})
}

func testSession(t *testing.T) *sim.Session {
	t.Helper()
	cfg := config.Default()
	cfg.Date = "2024-01-01"
	s, err := newSession(cfg, logging.Discard(), nil, time.Now())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	return s
}

func TestRunHeadlessSelectAndSummary(t *testing.T) {
	s := testSession(t)
	var buf bytes.Buffer

	err := runHeadless(s, cliOptions{selectName: "earth", summary: true, frames: 30}, 30, &buf)
	if err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Earth\nMass: 5.97e+24 kg",
		"Orbital Speed: 29.78 km/s",
		"Orrery @ 2024-01-01",
		"Total: 10 bodies",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := s.State().Snapshot().TotalFrames; got != 30 {
		t.Errorf("frames = %d, want 30", got)
	}
}

func TestRunHeadlessSnapshot(t *testing.T) {
	s := testSession(t)
	path := filepath.Join(t.TempDir(), "snap.json")

	if err := runHeadless(s, cliOptions{snapshotPath: path}, 30, &bytes.Buffer{}); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snap sim.SnapshotExport
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Bodies) != 10 || snap.JulianDate != 2460310.5 {
		t.Errorf("snapshot = %d bodies at JD %v", len(snap.Bodies), snap.JulianDate)
	}
}

func TestRunHeadlessUnknownBody(t *testing.T) {
	s := testSession(t)
	if err := runHeadless(s, cliOptions{selectName: "Vulcan"}, 30, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown body")
	}
}
