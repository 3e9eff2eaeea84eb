// Package state keeps the session's event log and frame history.
package state

import (
	"sync"
	"time"
)

// EventType represents the kind of session event.
type EventType string

const (
	EventBodySkipped    EventType = "BODY_SKIPPED"
	EventDateJump       EventType = "DATE_JUMP"
	EventFlyToStarted   EventType = "FLYTO_STARTED"
	EventFlyToCancelled EventType = "FLYTO_CANCELLED"
	EventFlyToDone      EventType = "FLYTO_DONE"
	EventPicked         EventType = "PICKED"
	EventSelected       EventType = "SELECTED"
)

// Event is one notable change in the session.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Body       string    `json:"body,omitempty"`
	JulianDate float64   `json:"julian_date,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// FrameSample is one entry in the frame history.
type FrameSample struct {
	Timestamp time.Time
	DT        float64 // seconds
	Clamped   int
}

// Manager holds the event ring buffer and frame history. It is safe for
// concurrent use so that headless exporters and the UI can share one.
type Manager struct {
	mu sync.RWMutex

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Frame history
	frames       []FrameSample
	maxFrameHist int
	totalFrames  uint64
	totalClamped uint64
	lastDateJump time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents    int
	MaxFrameHist int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:    50,  // Last 50 events
		MaxFrameHist: 120, // ~4s at 30 FPS
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxFrames := cfg.MaxFrameHist
	if maxFrames <= 0 {
		maxFrames = 120
	}
	return &Manager{
		maxEvents:    maxEvents,
		events:       make([]Event, 0, maxEvents),
		maxFrameHist: maxFrames,
		frames:       make([]FrameSample, 0, maxFrames),
	}
}

// AddEvent appends an event, overwriting the oldest once full. A zero
// timestamp is replaced with the current time.
func (m *Manager) AddEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Type == EventDateJump {
		m.lastDateJump = e.Timestamp
	}

	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// RecordFrame appends a frame to the history.
func (m *Manager) RecordFrame(s FrameSample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalFrames++
	m.totalClamped += uint64(s.Clamped)

	m.frames = append(m.frames, s)
	if len(m.frames) > m.maxFrameHist {
		m.frames = m.frames[1:]
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events, oldest first.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// FrameRate estimates frames per second from the frame history.
func (m *Manager) FrameRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.frames)
	if n < 2 {
		return 0
	}
	span := m.frames[n-1].Timestamp.Sub(m.frames[0].Timestamp).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}

// Snapshot is an immutable copy of the manager's state.
type Snapshot struct {
	Events       []Event
	TotalFrames  uint64
	TotalClamped uint64
	LastDateJump time.Time
	FrameRate    float64
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	fps := m.FrameRate()

	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Events:       m.getEventsOrdered(),
		TotalFrames:  m.totalFrames,
		TotalClamped: m.totalClamped,
		LastDateJump: m.lastDateJump,
		FrameRate:    fps,
	}
}
