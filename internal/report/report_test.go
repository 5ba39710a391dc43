package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/passtrack/core"
	"github.com/signalsfoundry/passtrack/model"
)

func fixtureDataset() Dataset {
	base := time.Date(2025, 12, 7, 3, 0, 0, 0, time.UTC)
	step := 5 * time.Second

	samples := make([]core.ObservationSample, 0, 5)
	for i, el := range []float64{2, 15, 40, 15, 2} {
		samples = append(samples, core.ObservationSample{
			Timestamp:      base.Add(time.Duration(i) * step),
			ElevationDeg:   el,
			AzimuthDeg:     180 + float64(i),
			RangeKm:        1200 - 100*float64(i%3),
			SatelliteLat:   31 + float64(i),
			SatelliteLon:   -102,
			SatelliteAltKm: 520,
			Visible:        true,
			Signal: core.SignalMetrics{
				ReceivedPowerDBm:  -85 + el/10,
				SNRdB:             25 + el/10,
				LinkQuality:       core.LinkQualityExcellent,
				PathLossDB:        165 - el/10,
				AtmosphericLossDB: 4,
			},
		})
	}

	passes := core.SegmentPasses(samples, step)

	return Dataset{
		GeneratedAt: time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC),
		Observer:    model.ObserverLocation{Name: "Odessa, TX", Latitude: 31.8457, Longitude: -102.3676, ElevationM: 895},
		Params:      core.DefaultSignalParams(),
		Window: core.SampleWindow{
			Start: time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 12, 12, 23, 59, 55, 0, time.UTC),
			Step:  step,
		},
		Results: []core.SatelliteResult{
			{
				Satellite: model.SatelliteEntry{Name: "BLUEWALKER 3", NoradID: 53807, Description: "Test satellite"},
				Elements:  model.OrbitalElements{Name: "BLUEWALKER 3", Line1: "1 ...", Line2: "2 ..."},
				Trajectory: core.Trajectory{
					Satellite: "BLUEWALKER 3",
					Samples:   samples,
					Gaps:      []time.Time{base.Add(-time.Minute)},
				},
				Passes: passes,
			},
			{
				Satellite: model.SatelliteEntry{Name: "BLUEBIRD-A", NoradID: 61045},
				Error:     "propagation failed for satellite \"BLUEBIRD-A\"",
			},
		},
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	ds := fixtureDataset()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, ds); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Dataset
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("decoded %d results, want 2", len(decoded.Results))
	}
	if decoded.Results[0].Satellite.Name != "BLUEWALKER 3" {
		t.Errorf("first satellite = %q", decoded.Results[0].Satellite.Name)
	}
	if got := len(decoded.Results[0].Trajectory.Samples); got != 5 {
		t.Errorf("decoded %d samples, want 5", got)
	}
	if decoded.Results[1].Error == "" {
		t.Error("per-satellite error did not survive the round trip")
	}
}

func TestWriteCSVLayout(t *testing.T) {
	ds := fixtureDataset()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds.Results[0]); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 6 {
		t.Fatalf("got %d rows, want header + 5 samples", len(records))
	}
	if records[0][0] != "timestamp" || records[0][len(records[0])-1] != "atmospheric_loss_db" {
		t.Errorf("unexpected header %v", records[0])
	}
	for i, row := range records[1:] {
		if len(row) != len(csvHeader) {
			t.Errorf("row %d has %d columns, want %d", i, len(row), len(csvHeader))
		}
	}
	if records[1][0] != "2025-12-07T03:00:00Z" {
		t.Errorf("first timestamp = %q", records[1][0])
	}
	if records[1][7] != "true" {
		t.Errorf("visible column = %q, want true", records[1][7])
	}
}

func TestWriteCSVEmptyTrajectory(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, core.SatelliteResult{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d rows, want header only", len(records))
	}
}

func TestWriteMarkdownSections(t *testing.T) {
	ds := fixtureDataset()

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, ds); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Satellite Pass Report",
		"Odessa, TX",
		"## BLUEWALKER 3",
		"**Total Passes Identified:** 1",
		"**Propagation Gaps:** 1 timestamps skipped",
		"| Pass # |",
		"#### Pass #1",
		"## BLUEBIRD-A",
		"**Analysis failed:**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}

	// The failed satellite must not get a pass table.
	failedSection := out[strings.Index(out, "## BLUEBIRD-A"):]
	if strings.Contains(failedSection, "| Pass # |") {
		t.Error("failed satellite section contains a pass table")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{25 * time.Second, "00:25"},
		{95 * time.Second, "01:35"},
		{20 * time.Minute, "20:00"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFilenames(t *testing.T) {
	start := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 12, 23, 59, 59, 0, time.UTC)

	if got := JSONFilename(start, end); got != "passtrack_data_dec07-dec12.json" {
		t.Errorf("JSONFilename = %q", got)
	}
	if got := CSVFilename("BLUEWALKER 3", start, end); got != "passtrack_bluewalker_3_dec07-dec12.csv" {
		t.Errorf("CSVFilename = %q", got)
	}
	if got := MarkdownFilename(start, end); got != "passtrack_report_dec07-dec12.md" {
		t.Errorf("MarkdownFilename = %q", got)
	}
}
