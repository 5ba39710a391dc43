package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/signalsfoundry/passtrack/core"
)

// csvHeader matches the flattened sample layout, one row per sampled instant.
var csvHeader = []string{
	"timestamp",
	"elevation_deg",
	"azimuth_deg",
	"range_km",
	"satellite_lat",
	"satellite_lon",
	"satellite_alt_km",
	"visible",
	"received_power_dbm",
	"snr_db",
	"link_quality",
	"path_loss_db",
	"atmospheric_loss_db",
}

// WriteCSV renders one satellite's sample sequence as CSV with a header row.
func WriteCSV(w io.Writer, result core.SatelliteResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range result.Trajectory.Samples {
		row := []string{
			s.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(s.ElevationDeg),
			formatFloat(s.AzimuthDeg),
			formatFloat(s.RangeKm),
			formatFloat(s.SatelliteLat),
			formatFloat(s.SatelliteLon),
			formatFloat(s.SatelliteAltKm),
			strconv.FormatBool(s.Visible),
			formatFloat(s.Signal.ReceivedPowerDBm),
			formatFloat(s.Signal.SNRdB),
			string(s.Signal.LinkQuality),
			formatFloat(s.Signal.PathLossDB),
			formatFloat(s.Signal.AtmosphericLossDB),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
