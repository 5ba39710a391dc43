package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AnalysisCollector bundles Prometheus metrics for the pass analysis pipeline
// and exposes a ready-to-serve /metrics handler. It implements the analyzer's
// RunRecorder interface, so wiring it in is a single field assignment.
type AnalysisCollector struct {
	gatherer prometheus.Gatherer

	SatellitesAnalyzed *prometheus.CounterVec
	SatellitesFailed   *prometheus.CounterVec
	Samples            *prometheus.CounterVec
	Passes             *prometheus.CounterVec
	Gaps               *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
}

// NewAnalysisCollector registers the analysis metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewAnalysisCollector(reg prometheus.Registerer) (*AnalysisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	analyzed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "passtrack_satellites_analyzed_total",
		Help: "Satellites whose trajectory analysis completed, labeled by satellite name.",
	}, []string{"satellite"}), "passtrack_satellites_analyzed_total")
	if err != nil {
		return nil, err
	}

	failed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "passtrack_satellites_failed_total",
		Help: "Satellites whose trajectory analysis aborted, labeled by satellite name.",
	}, []string{"satellite"}), "passtrack_satellites_failed_total")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "passtrack_samples_total",
		Help: "Trajectory samples produced, labeled by satellite name.",
	}, []string{"satellite"}), "passtrack_samples_total")
	if err != nil {
		return nil, err
	}

	passes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "passtrack_passes_total",
		Help: "Visibility passes detected, labeled by satellite name.",
	}, []string{"satellite"}), "passtrack_passes_total")
	if err != nil {
		return nil, err
	}

	gaps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "passtrack_propagation_gaps_total",
		Help: "Timestamps skipped because propagation failed, labeled by satellite name.",
	}, []string{"satellite"}), "passtrack_propagation_gaps_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "passtrack_analysis_duration_seconds",
		Help:    "Wall-clock time spent analyzing one satellite.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}), "passtrack_analysis_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &AnalysisCollector{
		gatherer:           gatherer,
		SatellitesAnalyzed: analyzed,
		SatellitesFailed:   failed,
		Samples:            samples,
		Passes:             passes,
		Gaps:               gaps,
		AnalysisDuration:   duration,
	}, nil
}

// SatelliteAnalyzed records the counters for one completed satellite.
func (c *AnalysisCollector) SatelliteAnalyzed(satellite string, samples, passes, gaps int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.SatellitesAnalyzed != nil {
		c.SatellitesAnalyzed.WithLabelValues(satellite).Inc()
	}
	if c.Samples != nil {
		c.Samples.WithLabelValues(satellite).Add(float64(samples))
	}
	if c.Passes != nil {
		c.Passes.WithLabelValues(satellite).Add(float64(passes))
	}
	if c.Gaps != nil {
		c.Gaps.WithLabelValues(satellite).Add(float64(gaps))
	}
	if c.AnalysisDuration != nil {
		c.AnalysisDuration.Observe(elapsed.Seconds())
	}
}

// SatelliteFailed records one aborted satellite.
func (c *AnalysisCollector) SatelliteFailed(satellite string) {
	if c == nil || c.SatellitesFailed == nil {
		return
	}
	c.SatellitesFailed.WithLabelValues(satellite).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AnalysisCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
