package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/state"
)

// SnapshotExport is the JSON-serializable state of a session.
type SnapshotExport struct {
	Date       time.Time     `json:"date"`
	JulianDate float64       `json:"julian_date"`
	Model      string        `json:"model"`
	Selected   string        `json:"selected,omitempty"`
	Bodies     []BodyExport  `json:"bodies"`
	Skipped    []string      `json:"skipped,omitempty"`
	Events     []state.Event `json:"events,omitempty"`
}

// BodyExport is one body with derived fields.
type BodyExport struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Parent    string     `json:"parent,omitempty"`
	Position  astro.Vec3 `json:"position"`
	Velocity  astro.Vec3 `json:"velocity"`
	Speed     float64    `json:"speed"`
	Reference float64    `json:"distance_to_reference"`
	Mass      float64    `json:"mass_kg"`
	Radius    float64    `json:"radius"`
}

// Export captures the session for JSON output.
func (s *Session) Export() *SnapshotExport {
	out := &SnapshotExport{
		Date:       s.Time(),
		JulianDate: s.jd,
		Model:      s.model.Name(),
		Skipped:    s.Skipped(),
		Events:     s.state.RecentEvents(50),
	}
	if id, ok := s.Selected(); ok {
		out.Selected = s.bodyName(id)
	}

	s.reg.Each(func(b *body.State) {
		be := BodyExport{
			Name:     b.Desc.Name,
			Kind:     b.Desc.Kind.String(),
			Position: b.Position,
			Velocity: b.Velocity,
			Speed:    b.Velocity.Norm(),
			Mass:     b.Mass,
			Radius:   b.Radius,
		}
		if b.HasParent() {
			be.Parent = s.bodyName(b.Parent)
		}
		if ref := s.reg.Get(s.reg.Reference(b.ID)); ref != nil {
			be.Reference = b.Position.DistanceTo(ref.Position)
		}
		out.Bodies = append(out.Bodies, be)
	})
	return out
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (e *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummaryTable writes a text table of the session's bodies.
func (s *Session) WriteSummaryTable(w io.Writer) {
	e := s.Export()

	fmt.Fprintf(w, "Orrery @ %s (JD %.5f, %s)\n", e.Date.Format(time.RFC3339), e.JulianDate, e.Model)
	fmt.Fprintln(w, strings.Repeat("─", 84))

	if len(e.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-10s %-9s %-8s %10s %10s %10s %12s %9s\n",
		"Body", "Kind", "Parent", "X", "Y", "Z", "RefDist", "Speed")
	fmt.Fprintln(w, strings.Repeat("─", 84))

	for _, b := range e.Bodies {
		fmt.Fprintf(w, "%-10s %-9s %-8s %10.2f %10.2f %10.2f %12.3f %9.5f\n",
			truncateStr(b.Name, 10),
			b.Kind,
			truncateStr(b.Parent, 8),
			b.Position.X, b.Position.Y, b.Position.Z,
			b.Reference,
			b.Speed,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies", len(e.Bodies))
	if len(e.Skipped) > 0 {
		fmt.Fprintf(w, " (skipped: %s)", strings.Join(e.Skipped, ", "))
	}
	fmt.Fprintln(w)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
