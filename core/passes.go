package core

import "time"

// Pass is a maximal contiguous run of visible samples for one satellite.
// Aggregates are computed once when the pass is closed and cached; the pass
// owns its sample slice by value and is never mutated afterwards.
type Pass struct {
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"duration"`
	MaxElevationDeg float64       `json:"max_elevation_deg"`
	PeakPowerDBm    float64       `json:"peak_power_dbm"`
	PeakSNRdB       float64       `json:"peak_snr_db"`
	MeanPowerDBm    float64       `json:"mean_power_dbm"`
	MeanSNRdB       float64       `json:"mean_snr_db"`

	Samples []ObservationSample `json:"samples"`
}

// SegmentPasses partitions one satellite's time-ordered sample sequence into
// passes: a two-state scan ({NoPass, InPass}) driven by each sample's
// visibility, with any open pass flushed at end of input.
//
// step is the sampling interval the sequence was generated with. When step
// is positive, a timestamp jump larger than step between consecutive samples
// closes any open pass first: a propagation gap must not be bridged as one
// continuous visible run. Pass step <= 0 for sequences known to be gap-free.
//
// Empty input or input with no visible samples yields an empty, non-error
// result. A single visible sample forms a valid minimal pass. No merging of
// passes across gaps and no minimum-duration filtering: callers decide what
// to discard.
func SegmentPasses(samples []ObservationSample, step time.Duration) []Pass {
	var (
		passes  []Pass
		current []ObservationSample
		inPass  bool
	)

	flush := func() {
		if len(current) > 0 {
			passes = append(passes, finalizePass(current))
		}
		current = nil
		inPass = false
	}

	for i, s := range samples {
		if inPass && step > 0 && i > 0 {
			if s.Timestamp.Sub(samples[i-1].Timestamp) > step {
				flush()
			}
		}

		switch {
		case s.Visible && !inPass:
			inPass = true
			current = []ObservationSample{s}
		case s.Visible && inPass:
			current = append(current, s)
		case !s.Visible && inPass:
			flush()
		}
	}

	// A pass that runs to the end of the data closes on the last sample.
	if inPass {
		flush()
	}

	return passes
}

// finalizePass computes the cached aggregates from the member samples.
// Raw maxima and arithmetic means only: no smoothing, no outlier rejection.
func finalizePass(samples []ObservationSample) Pass {
	first := samples[0]
	last := samples[len(samples)-1]

	p := Pass{
		StartTime:       first.Timestamp,
		EndTime:         last.Timestamp,
		Duration:        last.Timestamp.Sub(first.Timestamp),
		MaxElevationDeg: first.ElevationDeg,
		PeakPowerDBm:    first.Signal.ReceivedPowerDBm,
		PeakSNRdB:       first.Signal.SNRdB,
		Samples:         samples,
	}

	var sumPower, sumSNR float64
	for _, s := range samples {
		if s.ElevationDeg > p.MaxElevationDeg {
			p.MaxElevationDeg = s.ElevationDeg
		}
		if s.Signal.ReceivedPowerDBm > p.PeakPowerDBm {
			p.PeakPowerDBm = s.Signal.ReceivedPowerDBm
		}
		if s.Signal.SNRdB > p.PeakSNRdB {
			p.PeakSNRdB = s.Signal.SNRdB
		}
		sumPower += s.Signal.ReceivedPowerDBm
		sumSNR += s.Signal.SNRdB
	}

	n := float64(len(samples))
	p.MeanPowerDBm = sumPower / n
	p.MeanSNRdB = sumSNR / n
	return p
}
