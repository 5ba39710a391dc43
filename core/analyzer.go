package core

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/model"
)

const tracerName = "github.com/signalsfoundry/passtrack/core"

// Target is one satellite queued for analysis: its catalog identity, the
// resolved orbital elements, and the oracle built from them.
type Target struct {
	Entry      model.SatelliteEntry
	Elements   model.OrbitalElements
	Propagator Propagator
}

// SatelliteResult is the complete analysis output for one satellite: the
// raw sample sequence (for data export) and the segmented passes (for
// summarized reporting). Error carries a per-satellite failure so one bad
// element set does not sink a batch run.
type SatelliteResult struct {
	Satellite  model.SatelliteEntry  `json:"satellite"`
	Elements   model.OrbitalElements `json:"tle"`
	Trajectory Trajectory            `json:"trajectory"`
	Passes     []Pass                `json:"passes"`
	Error      string                `json:"error,omitempty"`
}

// RunRecorder receives per-satellite counters from the analyzer. Implemented
// by the observability collector; a nil recorder disables recording.
type RunRecorder interface {
	SatelliteAnalyzed(satellite string, samples, passes, gaps int, elapsed time.Duration)
	SatelliteFailed(satellite string)
}

// Analyzer runs the sampling + segmentation pipeline for a fleet of
// satellites against one observer and one window.
type Analyzer struct {
	Observer model.ObserverLocation
	Window   SampleWindow
	Params   SignalParams

	// Workers bounds the number of satellites analyzed concurrently.
	// Zero means one goroutine per CPU.
	Workers int

	Log      logging.Logger
	Recorder RunRecorder
}

// Run analyzes every target and returns results in target order. Satellites
// are independent: each runs in its own goroutine behind a semaphore and the
// outputs are merged by simple concatenation. Per-satellite failures land in
// SatelliteResult.Error; only precondition violations (bad window/observer)
// abort the whole batch.
func (a *Analyzer) Run(ctx context.Context, targets []Target) ([]SatelliteResult, error) {
	if err := a.Window.Validate(); err != nil {
		return nil, err
	}
	if err := a.Observer.Validate(); err != nil {
		return nil, err
	}

	log := a.Log
	if log == nil {
		log = logging.Noop()
	}

	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tracer := otel.Tracer(tracerName)
	ctx, runSpan := tracer.Start(ctx, "analyzer.Run",
		trace.WithAttributes(
			attribute.Int("satellite_count", len(targets)),
			attribute.String("window_start", a.Window.Start.UTC().Format(time.RFC3339)),
			attribute.String("window_end", a.Window.End.UTC().Format(time.RFC3339)),
		))
	defer runSpan.End()

	results := make([]SatelliteResult, len(targets))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, tgt Target) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = SatelliteResult{
					Satellite: tgt.Entry,
					Elements:  tgt.Elements,
					Error:     ctx.Err().Error(),
				}
				return
			}

			results[idx] = a.analyzeOne(ctx, tracer, log, tgt)
		}(i, target)
	}

	wg.Wait()
	return results, nil
}

func (a *Analyzer) analyzeOne(ctx context.Context, tracer trace.Tracer, log logging.Logger, tgt Target) SatelliteResult {
	name := tgt.Entry.Name
	started := time.Now()

	ctx, span := tracer.Start(ctx, "analyzer.Satellite",
		trace.WithAttributes(
			attribute.String("satellite", name),
			attribute.Int("norad_id", int(tgt.Entry.NoradID)),
		))
	defer span.End()

	result := SatelliteResult{Satellite: tgt.Entry, Elements: tgt.Elements}

	if tgt.Propagator == nil {
		log.Error(ctx, "satellite has no usable orbital elements",
			logging.String("satellite", name))
		if a.Recorder != nil {
			a.Recorder.SatelliteFailed(name)
		}
		result.Error = "no usable orbital elements"
		return result
	}

	traj, err := SampleTrajectory(ctx, tgt.Propagator, name, a.Observer, a.Window, a.Params)
	if err != nil {
		span.RecordError(err)
		log.Error(ctx, "satellite analysis failed",
			logging.String("satellite", name),
			logging.String("error", err.Error()))
		if a.Recorder != nil {
			a.Recorder.SatelliteFailed(name)
		}
		result.Error = err.Error()
		return result
	}

	passes := SegmentPasses(traj.Samples, a.Window.Step)
	elapsed := time.Since(started)

	span.SetAttributes(
		attribute.Int("samples", len(traj.Samples)),
		attribute.Int("passes", len(passes)),
		attribute.Int("gaps", len(traj.Gaps)),
	)
	log.Info(ctx, "satellite analyzed",
		logging.String("satellite", name),
		logging.Int("samples", len(traj.Samples)),
		logging.Int("passes", len(passes)),
		logging.Int("gaps", len(traj.Gaps)),
		logging.String("elapsed", elapsed.String()))
	if a.Recorder != nil {
		a.Recorder.SatelliteAnalyzed(name, len(traj.Samples), len(passes), len(traj.Gaps), elapsed)
	}

	result.Trajectory = traj
	result.Passes = passes
	return result
}
