package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/passtrack/model"
)

// Observation is one topocentric fix of a satellite as seen from a ground
// observer: look angles plus the sub-satellite point.
type Observation struct {
	ElevationDeg   float64
	AzimuthDeg     float64 // [0,360), clockwise from true north
	RangeKm        float64
	SatelliteLat   float64
	SatelliteLon   float64
	SatelliteAltKm float64
}

// Propagator is the orbital oracle: it maps (observer, instant) to a
// topocentric observation. Implementations must be safe for concurrent
// read-only use once constructed.
type Propagator interface {
	Observe(observer model.ObserverLocation, t time.Time) (Observation, error)
}

// TLEPropagator propagates a two-line element set with SGP4 via
// go-satellite. The underlying satellite state is immutable after
// construction, so one propagator may serve many goroutines.
type TLEPropagator struct {
	name string
	sat  satellite.Satellite
}

// NewTLEPropagator builds a propagator from resolved orbital elements.
func NewTLEPropagator(elements model.OrbitalElements) (p *TLEPropagator, err error) {
	line1 := strings.TrimSpace(elements.Line1)
	line2 := strings.TrimSpace(elements.Line2)
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("satellite %s: malformed TLE line pair", elements.Name)
	}

	// go-satellite panics rather than returning an error when an element
	// field fails to parse.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("satellite %s: parsing TLE: %v", elements.Name, r)
		}
	}()

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &TLEPropagator{name: elements.Name, sat: sat}, nil
}

// Name returns the satellite name the propagator was built for.
func (p *TLEPropagator) Name() string { return p.name }

// Observe propagates the satellite to t and computes observer-relative look
// angles and the sub-satellite point. A numerically diverged propagation
// (stale or corrupt elements) is reported as a *PropagationError.
func (p *TLEPropagator) Observe(observer model.ObserverLocation, t time.Time) (Observation, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	if !finite(pos.X) || !finite(pos.Y) || !finite(pos.Z) {
		return Observation{}, &PropagationError{Satellite: p.name, At: t, Err: errors.New("sgp4 position is not finite")}
	}
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return Observation{}, &PropagationError{Satellite: p.name, At: t, Err: errors.New("sgp4 produced no position")}
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)

	altKm, _, llRad := satellite.ECIToLLA(pos, gmst)
	llDeg := satellite.LatLongDeg(llRad)

	obsCoords := satellite.LatLong{
		Latitude:  observer.Latitude * satellite.DEG2RAD,
		Longitude: observer.Longitude * satellite.DEG2RAD,
	}
	angles := satellite.ECIToLookAngles(pos, obsCoords, observer.ElevationM/1000, jd)

	azimuth := math.Mod(angles.Az*satellite.RAD2DEG, 360)
	if azimuth < 0 {
		azimuth += 360
	}

	return Observation{
		ElevationDeg:   angles.El * satellite.RAD2DEG,
		AzimuthDeg:     azimuth,
		RangeKm:        angles.Rg,
		SatelliteLat:   llDeg.Latitude,
		SatelliteLon:   llDeg.Longitude,
		SatelliteAltKm: altKm,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
