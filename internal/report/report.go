// Package report renders analysis output: the complete dataset as JSON,
// per-satellite sample data as CSV, and a human-readable Markdown summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/passtrack/core"
	"github.com/signalsfoundry/passtrack/model"
)

// Dataset bundles one analysis run for export.
type Dataset struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Observer    model.ObserverLocation `json:"observer"`
	Params      core.SignalParams      `json:"signal_params"`
	Window      core.SampleWindow      `json:"window"`
	Results     []core.SatelliteResult `json:"satellites"`
}

// WriteJSON renders the full dataset as indented JSON.
func WriteJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// formatDuration renders a duration as mm:ss, the convention used in the
// pass tables.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
