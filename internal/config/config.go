// Package config loads and validates the analysis configuration: the observer
// site, link budget parameters, sampling window, and the satellite fleet to
// track.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/passtrack/core"
	"github.com/signalsfoundry/passtrack/model"
)

// Sampling controls the analysis window. Start is optional; when zero the
// window begins at run time, truncated to the step.
type Sampling struct {
	Start         time.Time `json:"start,omitempty"`
	DurationHours float64   `json:"duration_hours"`
	StepSeconds   float64   `json:"step_seconds"`
}

// TLE controls how orbital elements are resolved.
type TLE struct {
	CacheDir         string  `json:"cache_dir,omitempty"`
	CacheMaxAgeHours float64 `json:"cache_max_age_hours,omitempty"`
	Offline          bool    `json:"offline,omitempty"`
}

// Config is the top-level configuration document.
type Config struct {
	Observer   model.ObserverLocation `json:"observer"`
	Signal     core.SignalParams      `json:"signal"`
	Sampling   Sampling               `json:"sampling"`
	Satellites []model.SatelliteEntry `json:"satellites"`
	TLE        TLE                    `json:"tle"`
}

// Default returns the stock configuration: the AST SpaceMobile fleet observed
// from Odessa, TX at a 5 second step over 24 hours.
func Default() Config {
	return Config{
		Observer: model.ObserverLocation{
			Name:       "Odessa, TX",
			Latitude:   31.8457,
			Longitude:  -102.3676,
			ElevationM: 895,
		},
		Signal: core.DefaultSignalParams(),
		Sampling: Sampling{
			DurationHours: 24,
			StepSeconds:   5,
		},
		Satellites: []model.SatelliteEntry{
			{Name: "BLUEWALKER 3", NoradID: 53807, Description: "Test satellite, largest commercial communications array in LEO"},
			{Name: "BLUEBIRD-A", NoradID: 61045, Description: "Block 1 BlueBird satellite (SPACEMOBILE-003), launched Sep 2024"},
			{Name: "BLUEBIRD-B", NoradID: 61046, Description: "Block 1 BlueBird satellite (SPACEMOBILE-005), launched Sep 2024"},
			{Name: "BLUEBIRD-C", NoradID: 61047, Description: "Block 1 BlueBird satellite (SPACEMOBILE-001), launched Sep 2024"},
			{Name: "BLUEBIRD-D", NoradID: 61048, Description: "Block 1 BlueBird satellite (SPACEMOBILE-002), launched Sep 2024"},
			{Name: "BLUEBIRD-E", NoradID: 61049, Description: "Block 1 BlueBird satellite (SPACEMOBILE-004), launched Sep 2024"},
			{Name: "BLUEBIRD-6", NoradID: 67232, Description: "Block 2 BlueBird satellite (FM1), launched Dec 2025, 10x capacity of Block 1"},
		},
		TLE: TLE{
			CacheDir:         defaultCacheDir(),
			CacheMaxAgeHours: 24,
		},
	}
}

// Load reads a JSON config file, layers it over the defaults, and validates
// the result. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	if err := c.Observer.Validate(); err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	if err := c.Signal.Validate(); err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	if c.Sampling.DurationHours <= 0 {
		return fmt.Errorf("sampling: duration_hours must be positive, got %v", c.Sampling.DurationHours)
	}
	if c.Sampling.StepSeconds <= 0 {
		return fmt.Errorf("sampling: step_seconds must be positive, got %v", c.Sampling.StepSeconds)
	}
	if len(c.Satellites) == 0 {
		return fmt.Errorf("satellites: at least one entry required")
	}
	seen := make(map[string]bool, len(c.Satellites))
	for i, s := range c.Satellites {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("satellites[%d]: %w", i, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("satellites[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Window materializes the sampling window, anchoring an unset start at now.
func (c Config) Window(now time.Time) core.SampleWindow {
	step := time.Duration(c.Sampling.StepSeconds * float64(time.Second))

	start := c.Sampling.Start
	if start.IsZero() {
		start = now.UTC().Truncate(step)
	}
	return core.SampleWindow{
		Start: start,
		End:   start.Add(time.Duration(c.Sampling.DurationHours * float64(time.Hour))),
		Step:  step,
	}
}

// CacheMaxAge converts the configured hours into a duration, zero when unset.
func (c Config) CacheMaxAge() time.Duration {
	if c.TLE.CacheMaxAgeHours <= 0 {
		return 0
	}
	return time.Duration(c.TLE.CacheMaxAgeHours * float64(time.Hour))
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/passtrack/tle"
	}
	return ".passtrack-cache/tle"
}
