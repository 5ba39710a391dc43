package core

import (
	"fmt"
	"math"
)

// LinkQuality is a coarse, human-readable classification of link quality
// derived from the SNR estimate. The five bands partition the whole SNR
// range with lower-inclusive boundaries.
type LinkQuality string

const (
	LinkQualityExcellent LinkQuality = "Excellent" // SNR >= 20 dB
	LinkQualityGood      LinkQuality = "Good"      // SNR >= 15 dB
	LinkQualityFair      LinkQuality = "Fair"      // SNR >= 10 dB
	LinkQualityPoor      LinkQuality = "Poor"      // SNR >= 5 dB
	LinkQualityVeryPoor  LinkQuality = "Very Poor" // SNR < 5 dB
)

// SignalParams holds the link-budget constants for one receiver setup.
// Values are passed by value into Estimate; there is no hidden global state.
type SignalParams struct {
	FrequencyGHz     float64 `json:"frequency_ghz"`
	SatelliteEIRPdBW float64 `json:"satellite_eirp_dbw"`
	ReceiverGainDBi  float64 `json:"receiver_gain_dbi"`
	SystemLossesDB   float64 `json:"system_losses_db"`
	NoiseFloorDBm    float64 `json:"noise_floor_dbm"`
}

// DefaultSignalParams returns typical constants for LEO satcom in the
// cellular bands.
func DefaultSignalParams() SignalParams {
	return SignalParams{
		FrequencyGHz:     2.0,
		SatelliteEIRPdBW: 55,
		ReceiverGainDBi:  15,
		SystemLossesDB:   3,
		NoiseFloorDBm:    -110,
	}
}

// Validate checks that the parameters can produce a meaningful estimate.
func (p SignalParams) Validate() error {
	if p.FrequencyGHz <= 0 || math.IsInf(p.FrequencyGHz, 0) || math.IsNaN(p.FrequencyGHz) {
		return fmt.Errorf("%w: frequency_ghz must be positive and finite, got %v", ErrInvalidInput, p.FrequencyGHz)
	}
	for name, v := range map[string]float64{
		"satellite_eirp_dbw": p.SatelliteEIRPdBW,
		"receiver_gain_dbi":  p.ReceiverGainDBi,
		"system_losses_db":   p.SystemLossesDB,
		"noise_floor_dbm":    p.NoiseFloorDBm,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidInput, name)
		}
	}
	return nil
}

// SignalMetrics is the deterministic link-budget estimate for one
// observation. Derived purely from (elevation, range, azimuth) and
// SignalParams; immutable once computed.
type SignalMetrics struct {
	ReceivedPowerDBm  float64     `json:"received_power_dbm"`
	SNRdB             float64     `json:"snr_db"`
	LinkQuality       LinkQuality `json:"link_quality"`
	PathLossDB        float64     `json:"path_loss_db"` // total: free-space + atmospheric + system
	AtmosphericLossDB float64     `json:"atmospheric_loss_db"`
}

// Estimate computes a link-budget signal estimate for a satellite seen at
// the given elevation, slant range and azimuth.
//
// Elevation may be any real value; callers decide visibility separately, so
// below-horizon geometries are extrapolated rather than rejected. Azimuth is
// accepted for forward compatibility with directional-gain modelling and is
// currently unused beyond a finiteness check.
//
// Pure and safe for concurrent use.
func Estimate(elevationDeg, rangeKm, azimuthDeg float64, params SignalParams) (SignalMetrics, error) {
	if math.IsNaN(elevationDeg) || math.IsInf(elevationDeg, 0) {
		return SignalMetrics{}, fmt.Errorf("%w: elevation %v is not finite", ErrInvalidInput, elevationDeg)
	}
	if math.IsNaN(azimuthDeg) || math.IsInf(azimuthDeg, 0) {
		return SignalMetrics{}, fmt.Errorf("%w: azimuth %v is not finite", ErrInvalidInput, azimuthDeg)
	}
	if rangeKm <= 0 || math.IsNaN(rangeKm) || math.IsInf(rangeKm, 0) {
		return SignalMetrics{}, fmt.Errorf("%w: range %v km is not positive and finite", ErrInvalidInput, rangeKm)
	}
	if err := params.Validate(); err != nil {
		return SignalMetrics{}, err
	}

	// Free-space path loss:
	// FSPL(dB) = 20*log10(d_km) + 20*log10(f_MHz) + 32.45
	frequencyMHz := params.FrequencyGHz * 1000
	fsplDB := 20*math.Log10(rangeKm) + 20*math.Log10(frequencyMHz) + 32.45

	atmLossDB := atmosphericLossDB(elevationDeg)

	totalPathLossDB := fsplDB + atmLossDB + params.SystemLossesDB

	// EIRP is configured in dBW; the rest of the budget runs in dBm.
	eirpDBm := params.SatelliteEIRPdBW + 30
	receivedPowerDBm := eirpDBm - totalPathLossDB + params.ReceiverGainDBi

	snrDB := receivedPowerDBm - params.NoiseFloorDBm

	return SignalMetrics{
		ReceivedPowerDBm:  receivedPowerDBm,
		SNRdB:             snrDB,
		LinkQuality:       ClassifySNR(snrDB),
		PathLossDB:        totalPathLossDB,
		AtmosphericLossDB: atmLossDB,
	}, nil
}

// atmosphericLossDB is a step table over elevation: the lower the satellite,
// the more atmosphere the signal traverses. Values stay within the 2–7 dB
// design band over [0°,90°] and never increase with elevation. Below-horizon
// elevations reuse the lowest bucket; the signal is not receivable there, so
// only monotonicity matters.
func atmosphericLossDB(elevationDeg float64) float64 {
	switch {
	case elevationDeg < 10:
		return 6.0
	case elevationDeg < 30:
		return 4.0
	case elevationDeg < 60:
		return 2.5
	default:
		return 2.0
	}
}

// ClassifySNR maps an SNR estimate onto the quality bands.
func ClassifySNR(snrDB float64) LinkQuality {
	switch {
	case snrDB >= 20:
		return LinkQualityExcellent
	case snrDB >= 15:
		return LinkQualityGood
	case snrDB >= 10:
		return LinkQualityFair
	case snrDB >= 5:
		return LinkQualityPoor
	default:
		return LinkQualityVeryPoor
	}
}
