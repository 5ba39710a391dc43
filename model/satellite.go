package model

import (
	"fmt"
	"strings"
)

// SatelliteEntry identifies one satellite of the tracked fleet. Entries come
// from configuration or the built-in catalog and are immutable once loaded.
type SatelliteEntry struct {
	Name        string `json:"name"`
	NoradID     uint32 `json:"norad_id"`
	Description string `json:"description,omitempty"`
}

// Validate checks that the entry can be used to resolve orbital elements.
func (s SatelliteEntry) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("satellite entry: name is empty")
	}
	if s.NoradID == 0 {
		return fmt.Errorf("satellite entry %q: norad_id is zero", s.Name)
	}
	return nil
}

// OrbitalElements is a resolved two-line element set for one satellite.
// The line pair is treated as an opaque, pre-validated string pair; parsing
// beyond format validation belongs to the propagation oracle.
type OrbitalElements struct {
	Name  string `json:"name"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}
