package core

import (
	"reflect"
	"testing"
	"time"
)

var segBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// samplesFromElevations builds a 5-second-step sequence where each entry's
// visibility follows its elevation. Signal values are derived from the
// elevation so aggregate checks have distinguishable inputs.
func samplesFromElevations(elevations ...float64) []ObservationSample {
	samples := make([]ObservationSample, len(elevations))
	for i, el := range elevations {
		samples[i] = ObservationSample{
			Timestamp:    segBase.Add(time.Duration(i) * 5 * time.Second),
			ElevationDeg: el,
			Visible:      el >= 0,
			Signal: SignalMetrics{
				ReceivedPowerDBm: -80 + el,
				SNRdB:            30 + el,
			},
		}
	}
	return samples
}

func TestSegmentPasses_EmptyInput(t *testing.T) {
	if got := SegmentPasses(nil, 5*time.Second); len(got) != 0 {
		t.Errorf("expected no passes for empty input, got %d", len(got))
	}
}

func TestSegmentPasses_AllInvisible(t *testing.T) {
	samples := samplesFromElevations(-10, -5, -1, -20)
	if got := SegmentPasses(samples, 5*time.Second); len(got) != 0 {
		t.Errorf("expected no passes for all-invisible input, got %d", len(got))
	}
}

func TestSegmentPasses_AllVisibleIsOnePass(t *testing.T) {
	samples := samplesFromElevations(1, 12, 47, 30, 2)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 1 {
		t.Fatalf("expected one pass, got %d", len(passes))
	}

	p := passes[0]
	if len(p.Samples) != len(samples) {
		t.Errorf("pass has %d samples, want %d", len(p.Samples), len(samples))
	}
	if p.MaxElevationDeg != 47 {
		t.Errorf("MaxElevationDeg = %v, want 47", p.MaxElevationDeg)
	}
	if !p.StartTime.Equal(samples[0].Timestamp) || !p.EndTime.Equal(samples[4].Timestamp) {
		t.Errorf("pass bounds %v..%v do not match input bounds", p.StartTime, p.EndTime)
	}
}

func TestSegmentPasses_BoundaryRun(t *testing.T) {
	// Elevations [-1, 0, 5, 0, -1] at 5-second steps: exactly one pass of
	// three samples (the 0° samples count as visible), 10 s long, max 5°.
	samples := samplesFromElevations(-1, 0, 5, 0, -1)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 1 {
		t.Fatalf("expected one pass, got %d", len(passes))
	}

	p := passes[0]
	if len(p.Samples) != 3 {
		t.Errorf("pass has %d samples, want 3", len(p.Samples))
	}
	if p.Duration != 10*time.Second {
		t.Errorf("Duration = %v, want 10s", p.Duration)
	}
	if p.MaxElevationDeg != 5 {
		t.Errorf("MaxElevationDeg = %v, want 5", p.MaxElevationDeg)
	}
}

func TestSegmentPasses_SingleSamplePass(t *testing.T) {
	samples := samplesFromElevations(-1, 3, -1)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 1 {
		t.Fatalf("expected one minimal pass, got %d", len(passes))
	}
	p := passes[0]
	if len(p.Samples) != 1 || p.Duration != 0 {
		t.Errorf("minimal pass: %d samples, duration %v; want 1 sample, 0s", len(p.Samples), p.Duration)
	}
}

func TestSegmentPasses_SingleBelowHorizonSampleSplits(t *testing.T) {
	// Even one invisible sample splits two passes; no merging, no minimum
	// duration filter.
	samples := samplesFromElevations(2, 5, -0.001, 4, 1)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 2 {
		t.Fatalf("expected two passes, got %d", len(passes))
	}
	if len(passes[0].Samples) != 2 || len(passes[1].Samples) != 2 {
		t.Errorf("pass sizes = %d,%d; want 2,2", len(passes[0].Samples), len(passes[1].Samples))
	}
}

func TestSegmentPasses_PassToEndOfData(t *testing.T) {
	samples := samplesFromElevations(-3, 1, 8, 20)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 1 {
		t.Fatalf("expected one pass, got %d", len(passes))
	}
	if !passes[0].EndTime.Equal(samples[3].Timestamp) {
		t.Errorf("open pass should close on the last sample")
	}
}

func TestSegmentPasses_TimestampGapSplitsVisibleRun(t *testing.T) {
	// A missing timestamp inside a visible run (propagation failure gap)
	// must split the run into two passes rather than bridging it.
	samples := samplesFromElevations(5, 10, 15, 20, 25, 30)
	withGap := append(append([]ObservationSample{}, samples[:3]...), samples[4:]...)

	passes := SegmentPasses(withGap, 5*time.Second)
	if len(passes) != 2 {
		t.Fatalf("expected gap to split into two passes, got %d", len(passes))
	}
	if len(passes[0].Samples) != 3 || len(passes[1].Samples) != 2 {
		t.Errorf("pass sizes = %d,%d; want 3,2", len(passes[0].Samples), len(passes[1].Samples))
	}
	if !passes[1].StartTime.Equal(samples[4].Timestamp) {
		t.Errorf("second pass should start after the gap")
	}
}

func TestSegmentPasses_Aggregates(t *testing.T) {
	samples := samplesFromElevations(10, 30, 20)
	passes := SegmentPasses(samples, 5*time.Second)
	if len(passes) != 1 {
		t.Fatalf("expected one pass, got %d", len(passes))
	}

	p := passes[0]
	if p.PeakPowerDBm != -50 { // -80 + 30
		t.Errorf("PeakPowerDBm = %v, want -50", p.PeakPowerDBm)
	}
	if p.PeakSNRdB != 60 { // 30 + 30
		t.Errorf("PeakSNRdB = %v, want 60", p.PeakSNRdB)
	}
	wantMeanPower := (-70.0 + -50.0 + -60.0) / 3
	if p.MeanPowerDBm != wantMeanPower {
		t.Errorf("MeanPowerDBm = %v, want %v", p.MeanPowerDBm, wantMeanPower)
	}
	wantMeanSNR := (40.0 + 60.0 + 50.0) / 3
	if p.MeanSNRdB != wantMeanSNR {
		t.Errorf("MeanSNRdB = %v, want %v", p.MeanSNRdB, wantMeanSNR)
	}
}

func TestSegmentPasses_Idempotent(t *testing.T) {
	samples := samplesFromElevations(-1, 0, 15, 40, -2, 7, 9, -5)
	first := SegmentPasses(samples, 5*time.Second)
	second := SegmentPasses(samples, 5*time.Second)
	if !reflect.DeepEqual(first, second) {
		t.Error("re-segmenting the identical sequence produced different passes")
	}
}

func TestSegmentPasses_RoundTripVisibleSubsequence(t *testing.T) {
	samples := samplesFromElevations(-1, 2, 4, -3, -4, 6, 8, 10, -1, 12, -9)
	passes := SegmentPasses(samples, 5*time.Second)

	var rejoined []ObservationSample
	for _, p := range passes {
		rejoined = append(rejoined, p.Samples...)
	}

	var visible []ObservationSample
	for _, s := range samples {
		if s.Visible {
			visible = append(visible, s)
		}
	}

	if !reflect.DeepEqual(rejoined, visible) {
		t.Errorf("concatenated pass samples do not reproduce the visible subsequence:\n got %d samples\nwant %d samples", len(rejoined), len(visible))
	}
}
