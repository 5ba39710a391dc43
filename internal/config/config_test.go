package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config fails validation: %v", err)
	}

	if cfg.Observer.Name != "Odessa, TX" {
		t.Errorf("observer name = %q", cfg.Observer.Name)
	}
	if len(cfg.Satellites) != 7 {
		t.Errorf("fleet size = %d, want 7", len(cfg.Satellites))
	}
	if cfg.Signal.FrequencyGHz != 2.0 {
		t.Errorf("frequency = %v GHz, want 2.0", cfg.Signal.FrequencyGHz)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passtrack.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"observer": {"name": "Midland, TX", "latitude": 31.9973, "longitude": -102.0779, "elevation_m": 850},
		"sampling": {"duration_hours": 6, "step_seconds": 10}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Observer.Name != "Midland, TX" {
		t.Errorf("observer not overridden: %q", cfg.Observer.Name)
	}
	if cfg.Sampling.DurationHours != 6 || cfg.Sampling.StepSeconds != 10 {
		t.Errorf("sampling not overridden: %+v", cfg.Sampling)
	}
	// Untouched sections keep defaults.
	if cfg.Signal.NoiseFloorDBm != -110 {
		t.Errorf("noise floor = %v, want default -110", cfg.Signal.NoiseFloorDBm)
	}
	if len(cfg.Satellites) != 7 {
		t.Errorf("fleet size = %d, want default 7", len(cfg.Satellites))
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantIn  string
	}{
		{"malformed json", `{`, "parse config"},
		{"bad latitude", `{"observer": {"name": "x", "latitude": 123, "longitude": 0, "elevation_m": 0}}`, "observer"},
		{"zero step", `{"sampling": {"duration_hours": 1, "step_seconds": 0}}`, "step_seconds"},
		{"negative duration", `{"sampling": {"duration_hours": -1, "step_seconds": 5}}`, "duration_hours"},
		{"empty fleet", `{"satellites": []}`, "at least one"},
		{"duplicate satellite", `{"satellites": [
			{"name": "BLUEWALKER 3", "norad_id": 53807},
			{"name": "BLUEWALKER 3", "norad_id": 53807}
		]}`, "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected Load to fail")
			}
			if !strings.Contains(err.Error(), tc.wantIn) {
				t.Errorf("error %q does not mention %q", err, tc.wantIn)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWindowAnchorsUnsetStartAtNow(t *testing.T) {
	cfg := Default()
	now := time.Date(2026, 3, 1, 12, 0, 3, 0, time.UTC)

	w := cfg.Window(now)
	if w.Step != 5*time.Second {
		t.Errorf("step = %v, want 5s", w.Step)
	}
	if !w.Start.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want now truncated to the step", w.Start)
	}
	if got := w.End.Sub(w.Start); got != 24*time.Hour {
		t.Errorf("window span = %v, want 24h", got)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("materialized window invalid: %v", err)
	}
}

func TestWindowHonoursExplicitStart(t *testing.T) {
	cfg := Default()
	cfg.Sampling.Start = time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	cfg.Sampling.DurationHours = 143.999722 // Dec 7 00:00:00 through Dec 12 23:59:59

	w := cfg.Window(time.Now())
	if !w.Start.Equal(cfg.Sampling.Start) {
		t.Errorf("start = %v, want the configured start", w.Start)
	}
	if w.End.Before(time.Date(2025, 12, 12, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want near Dec 12 23:59:59", w.End)
	}
}
