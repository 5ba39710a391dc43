package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/signalsfoundry/passtrack/core"
)

// WriteMarkdown renders a human-readable summary of the run: observation
// setup, link budget assumptions, and a pass table per satellite.
func WriteMarkdown(w io.Writer, ds Dataset) error {
	var b strings.Builder

	b.WriteString("# Satellite Pass Report\n")
	b.WriteString("## Trajectory and Signal Strength Analysis\n\n")

	fmt.Fprintf(&b, "**Observer:** %s (%.4f°, %.4f°, %.0f m)\n\n",
		ds.Observer.Name, ds.Observer.Latitude, ds.Observer.Longitude, ds.Observer.ElevationM)

	b.WriteString("**Analysis Parameters:**\n\n")
	fmt.Fprintf(&b, "- **Window (UTC):** %s to %s\n",
		ds.Window.Start.UTC().Format("2006-01-02 15:04:05"),
		ds.Window.End.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Measurement Interval:** %s\n", ds.Window.Step)
	fmt.Fprintf(&b, "- **Satellites Analyzed:** %d\n", len(ds.Results))
	fmt.Fprintf(&b, "- **Carrier Frequency:** %.1f GHz\n", ds.Params.FrequencyGHz)
	fmt.Fprintf(&b, "- **Satellite EIRP:** %.0f dBW, **Receiver Gain:** %.0f dBi, **System Losses:** %.0f dB\n",
		ds.Params.SatelliteEIRPdBW, ds.Params.ReceiverGainDBi, ds.Params.SystemLossesDB)
	fmt.Fprintf(&b, "- **Noise Floor:** %.0f dBm\n\n", ds.Params.NoiseFloorDBm)

	b.WriteString("**Link Quality Bands (SNR):** Excellent ≥ 20 dB, Good ≥ 15 dB, Fair ≥ 10 dB, Poor ≥ 5 dB, Very Poor < 5 dB\n\n")
	b.WriteString("---\n")

	for _, res := range ds.Results {
		writeSatelliteSection(&b, res)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSatelliteSection(b *strings.Builder, res core.SatelliteResult) {
	fmt.Fprintf(b, "\n## %s\n\n", res.Satellite.Name)
	if res.Satellite.Description != "" {
		fmt.Fprintf(b, "%s\n\n", res.Satellite.Description)
	}

	if res.Error != "" {
		fmt.Fprintf(b, "**Analysis failed:** %s\n", res.Error)
		return
	}

	fmt.Fprintf(b, "**Total Passes Identified:** %d\n\n", len(res.Passes))
	if n := len(res.Trajectory.Gaps); n > 0 {
		fmt.Fprintf(b, "**Propagation Gaps:** %d timestamps skipped\n\n", n)
	}

	if len(res.Passes) == 0 {
		b.WriteString("No visible passes in the analysis window.\n")
		return
	}

	b.WriteString("| Pass # | Start (UTC) | End (UTC) | Duration | Max Elevation | Peak Signal (dBm) | Mean Signal (dBm) | Peak SNR (dB) |\n")
	b.WriteString("|--------|-------------|-----------|----------|---------------|-------------------|-------------------|---------------|\n")
	for i, p := range res.Passes {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %.1f° | %.1f | %.1f | %.1f |\n",
			i+1,
			p.StartTime.UTC().Format("01/02 15:04:05"),
			p.EndTime.UTC().Format("01/02 15:04:05"),
			formatDuration(p.Duration),
			p.MaxElevationDeg,
			p.PeakPowerDBm,
			p.MeanPowerDBm,
			p.PeakSNRdB,
		)
	}

	b.WriteString("\n### Detailed Pass Analysis\n")
	for i, p := range res.Passes {
		writePassDetail(b, i+1, p)
	}
}

func writePassDetail(b *strings.Builder, n int, p core.Pass) {
	fmt.Fprintf(b, "\n#### Pass #%d\n\n", n)
	fmt.Fprintf(b, "**Time Window (UTC):** %s to %s\n\n",
		p.StartTime.UTC().Format("2006-01-02 15:04:05"),
		p.EndTime.UTC().Format("15:04:05"))

	minRange, maxRange := rangeExtremes(p.Samples)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| **Duration** | %s (mm:ss) |\n", formatDuration(p.Duration))
	fmt.Fprintf(b, "| **Maximum Elevation** | %.2f° |\n", p.MaxElevationDeg)
	fmt.Fprintf(b, "| **Closest Range** | %.1f km |\n", minRange)
	fmt.Fprintf(b, "| **Farthest Range** | %.1f km |\n", maxRange)
	fmt.Fprintf(b, "| **Peak Signal Power** | %.2f dBm |\n", p.PeakPowerDBm)
	fmt.Fprintf(b, "| **Mean Signal Power** | %.2f dBm |\n", p.MeanPowerDBm)
	fmt.Fprintf(b, "| **Peak SNR** | %.2f dB |\n", p.PeakSNRdB)
	fmt.Fprintf(b, "| **Link Quality at Peak** | %s |\n", core.ClassifySNR(p.PeakSNRdB))
}

func rangeExtremes(samples []core.ObservationSample) (min, max float64) {
	for i, s := range samples {
		if i == 0 || s.RangeKm < min {
			min = s.RangeKm
		}
		if i == 0 || s.RangeKm > max {
			max = s.RangeKm
		}
	}
	return min, max
}

// Timestamped filenames, matching the dataset naming convention.
func JSONFilename(start, end time.Time) string {
	return fmt.Sprintf("passtrack_data_%s.json", dateSuffix(start, end))
}

func CSVFilename(satellite string, start, end time.Time) string {
	name := strings.ToLower(strings.ReplaceAll(satellite, " ", "_"))
	return fmt.Sprintf("passtrack_%s_%s.csv", name, dateSuffix(start, end))
}

func MarkdownFilename(start, end time.Time) string {
	return fmt.Sprintf("passtrack_report_%s.md", dateSuffix(start, end))
}

func dateSuffix(start, end time.Time) string {
	return fmt.Sprintf("%s-%s",
		strings.ToLower(start.UTC().Format("Jan02")),
		strings.ToLower(end.UTC().Format("Jan02")))
}
