// Command ls-orrery is a terminal orrery: planets placed from an ephemeris
// for any date and animated by a simple gravity integrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/ui"
)

// cliOptions holds flags that select what to do rather than how.
type cliOptions struct {
	configPath   string
	summary      bool
	snapshotPath string
	frames       int
	selectName   string
}

func (o cliOptions) headless() bool {
	return o.summary || o.snapshotPath != "" || o.selectName != ""
}

func main() {
	cfg, cli, err := parseFlags(os.Args[1:], nil)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Without a terminal there is nothing to draw on.
	if !cli.headless() && !term.IsTerminal(int(os.Stdout.Fd())) {
		cli.summary = true
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	logFile, err := setLogOutput(logger, cfg.LogFile, cli.headless())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info("serving metrics on %s", cfg.MetricsAddr)
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	session, err := newSession(cfg, logger, collector, time.Now())
	if err != nil {
		logger.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Headless mode: no TUI
	if cli.headless() {
		if err := runHeadless(session, cli, cfg.FPS, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create TUI model
	model := ui.New(session, ui.Options{
		FPS:    cfg.FPS,
		Labels: cfg.Labels,
		Orbits: cfg.Orbits,
		Logger: logger,
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags loads the config file and environment, then applies only the
// flags given on the command line. A nil environ reads the process
// environment.
func parseFlags(args []string, environ map[string]string) (config.Config, cliOptions, error) {
	fs := flag.NewFlagSet("ls-orrery", flag.ContinueOnError)

	var cli cliOptions
	fs.StringVar(&cli.configPath, "config", "", "TOML config file")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	ephemMode := fs.String("ephem", "kepler", "Ephemeris model (kepler, vsop87, horizons, auto)")
	vsopDir := fs.String("vsop87-dir", "", "Directory holding VSOP87B.* files")
	date := fs.String("date", "", "Start date YYYY-MM-DD (default today)")
	fps := fs.Int("fps", 30, "Frames per second")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cli.summary, "summary", false, "Print a body table instead of the TUI")
	fs.StringVar(&cli.snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	fs.IntVar(&cli.frames, "frames", 0, "Integrator frames to run before headless output")
	fs.StringVar(&cli.selectName, "select", "", "Print the info panel for a body")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, cliOptions{}, err
	}
	if cli.frames < 0 {
		return config.Config{}, cliOptions{}, fmt.Errorf("-frames must not be negative, got %d", cli.frames)
	}

	cfg, err := config.Load(cli.configPath, environ)
	if err != nil {
		return config.Config{}, cliOptions{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "ephem":
			cfg.Ephem = *ephemMode
		case "vsop87-dir":
			cfg.VSOP87Dir = *vsopDir
		case "date":
			cfg.Date = *date
		case "fps":
			cfg.FPS = *fps
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, cliOptions{}, err
	}
	return cfg, cli, nil
}

// setLogOutput sends logs to path when set. Otherwise headless runs log
// to stderr and the TUI discards logs so they do not corrupt the screen.
func setLogOutput(logger *logging.Logger, path string, headless bool) (*os.File, error) {
	if path == "" {
		if !headless {
			logger.SetOutput(io.Discard)
		}
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}

// newModel builds the configured ephemeris model.
func newModel(cfg config.Config, logger *logging.Logger) (ephem.Model, error) {
	switch cfg.Mode() {
	case ephem.ModeVSOP87:
		m := ephem.NewVSOP87Model(cfg.VSOP87Dir)
		if err := m.Preload(); err != nil {
			return nil, fmt.Errorf("load vsop87 data: %w", err)
		}
		return m, nil

	case ephem.ModeHorizons:
		return newHorizons(cfg), nil

	case ephem.ModeAuto:
		elog := logger.With("component", "ephem")
		return &ephem.Fallback{
			Primary:   newHorizons(cfg),
			Secondary: ephem.NewKeplerModel(),
			OnFallback: func(name string, err error) {
				elog.Warn("horizons failed for %s, using kepler: %v", name, err)
			},
		}, nil

	default:
		return ephem.NewKeplerModel(), nil
	}
}

func newHorizons(cfg config.Config) *ephem.HorizonsModel {
	return ephem.NewHorizonsModel(
		ephem.WithBaseURL(cfg.HorizonsURL),
		ephem.WithRequestInterval(cfg.HorizonsInterval),
	)
}

func newSession(cfg config.Config, logger *logging.Logger, collector *metrics.Collector, now time.Time) (*sim.Session, error) {
	model, err := newModel(cfg, logger)
	if err != nil {
		return nil, err
	}
	start, err := cfg.StartTime(now)
	if err != nil {
		return nil, err
	}
	params := cfg.Params()

	return sim.NewSession(sim.Options{
		Catalog:     cfg.Catalog(),
		Model:       model,
		Params:      &params,
		Time:        start,
		FlyDuration: cfg.FlyDuration,
		Logger:      logger.With("component", "sim"),
		Metrics:     collector,
	})
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(session *sim.Session, cli cliOptions, fps int, w io.Writer) error {
	dt := 1 / float64(fps)
	for i := 0; i < cli.frames; i++ {
		session.Frame(dt)
	}

	// Body card
	if cli.selectName != "" {
		if !session.Select(cli.selectName) {
			return fmt.Errorf("unknown body %q", cli.selectName)
		}
		info, _ := session.SelectedInfo()
		fmt.Fprintln(w, info.String())
	}

	// Export JSON if requested
	if cli.snapshotPath != "" {
		export := session.Export()
		if cli.snapshotPath == "-" {
			if err := export.WriteJSON(w); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(cli.snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if cli.summary {
		if cli.selectName != "" {
			fmt.Fprintln(w)
		}
		session.WriteSummaryTable(w)
	}
	return nil
}
