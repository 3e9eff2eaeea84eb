// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Date picker, jump to today, headless -select card, Prometheus metrics
// 0.2.0 - VSOP87 and Horizons ephemeris models, auto fallback, TOML config
// 0.1.0 - Initial release: Kepler placement, gravity integrator, fly-to camera, TUI
