package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/passtrack/model"
)

// SampleWindow is a closed time interval sampled at a fixed step.
type SampleWindow struct {
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Step  time.Duration `json:"step_ns"`
}

// Validate enforces the sampler preconditions.
func (w SampleWindow) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRange, w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
	}
	if w.Step <= 0 {
		return fmt.Errorf("%w: step %s is not positive", ErrInvalidRange, w.Step)
	}
	return nil
}

// ObservationSample is one timestamped fix of a satellite annotated with its
// link-budget estimate. Samples are created once by the sampler and never
// mutated.
type ObservationSample struct {
	Timestamp      time.Time     `json:"timestamp"`
	ElevationDeg   float64       `json:"elevation_deg"`
	AzimuthDeg     float64       `json:"azimuth_deg"`
	RangeKm        float64       `json:"range_km"`
	SatelliteLat   float64       `json:"satellite_lat"`
	SatelliteLon   float64       `json:"satellite_lon"`
	SatelliteAltKm float64       `json:"satellite_alt_km"`
	Visible        bool          `json:"visible"`
	Signal         SignalMetrics `json:"signal"`
}

// Trajectory is an ordered sample sequence for one satellite over one
// window. Gaps records the timestamps the propagator could not serve; those
// instants are absent from Samples and are never papered over with
// synthesized data.
type Trajectory struct {
	Satellite string              `json:"satellite"`
	Samples   []ObservationSample `json:"samples"`
	Gaps      []time.Time         `json:"gaps,omitempty"`
}

// SampleTrajectory drives the propagator over the window at the fixed step,
// producing samples in strictly increasing timestamp order. The end bound is
// inclusive: a step landing exactly on End is sampled.
//
// A propagation failure at a single instant is skipped and recorded in
// Trajectory.Gaps (the run is not aborted); any other error aborts the run.
// Visibility is elevation >= 0 exactly — an instant at precisely 0° counts
// as visible, with no hysteresis and no minimum-elevation mask.
func SampleTrajectory(ctx context.Context, prop Propagator, satName string, observer model.ObserverLocation, window SampleWindow, params SignalParams) (Trajectory, error) {
	if err := window.Validate(); err != nil {
		return Trajectory{}, fmt.Errorf("satellite %s: %w", satName, err)
	}
	if err := observer.Validate(); err != nil {
		return Trajectory{}, fmt.Errorf("satellite %s: %w", satName, err)
	}

	expected := int(window.End.Sub(window.Start)/window.Step) + 1
	traj := Trajectory{
		Satellite: satName,
		Samples:   make([]ObservationSample, 0, expected),
	}

	for t := window.Start; !t.After(window.End); t = t.Add(window.Step) {
		if err := ctx.Err(); err != nil {
			return Trajectory{}, fmt.Errorf("satellite %s: sampling at %s: %w", satName, t.UTC().Format(time.RFC3339), err)
		}

		obs, err := prop.Observe(observer, t)
		if err != nil {
			var perr *PropagationError
			if errors.As(err, &perr) {
				traj.Gaps = append(traj.Gaps, t.UTC())
				continue
			}
			return Trajectory{}, fmt.Errorf("satellite %s: observe at %s: %w", satName, t.UTC().Format(time.RFC3339), err)
		}

		signal, err := Estimate(obs.ElevationDeg, obs.RangeKm, obs.AzimuthDeg, params)
		if err != nil {
			return Trajectory{}, fmt.Errorf("satellite %s: signal estimate at %s: %w", satName, t.UTC().Format(time.RFC3339), err)
		}

		traj.Samples = append(traj.Samples, ObservationSample{
			Timestamp:      t.UTC(),
			ElevationDeg:   obs.ElevationDeg,
			AzimuthDeg:     obs.AzimuthDeg,
			RangeKm:        obs.RangeKm,
			SatelliteLat:   obs.SatelliteLat,
			SatelliteLon:   obs.SatelliteLon,
			SatelliteAltKm: obs.SatelliteAltKm,
			Visible:        obs.ElevationDeg >= 0.0,
			Signal:         signal,
		})
	}

	return traj, nil
}
