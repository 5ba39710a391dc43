package model

import "fmt"

// ObserverLocation is a fixed ground observer. Immutable once constructed;
// all analysis for a run is relative to a single observer.
type ObserverLocation struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`    // degrees, north positive
	Longitude  float64 `json:"longitude"`   // degrees, east positive
	ElevationM float64 `json:"elevation_m"` // metres above sea level
}

// minObserverElevationM is a sanity bound below which no real ground
// station exists (roughly the Dead Sea shore with margin).
const minObserverElevationM = -500.0

// Validate checks coordinate ranges.
func (o ObserverLocation) Validate() error {
	if o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("observer %q: latitude %.4f out of range [-90,90]", o.Name, o.Latitude)
	}
	if o.Longitude < -180 || o.Longitude > 180 {
		return fmt.Errorf("observer %q: longitude %.4f out of range [-180,180]", o.Name, o.Longitude)
	}
	if o.ElevationM < minObserverElevationM {
		return fmt.Errorf("observer %q: elevation %.1f m below sanity bound %.0f m", o.Name, o.ElevationM, minObserverElevationM)
	}
	return nil
}
