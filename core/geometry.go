package core

import "math"

// EarthRadiusKm is the mean Earth radius used by the simple geometric
// checks in this package (kilometres). The propagation oracle carries its
// own, more precise geodesy; these helpers exist for independent
// cross-validation of its output.
const EarthRadiusKm = 6371.0

// Vec3 is an ECEF-style vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// GeodeticToECEF converts a latitude/longitude (degrees) and elevation
// (metres) on a spherical Earth to an ECEF position in kilometres. The
// spherical model is deliberate: the result feeds plausibility checks, not
// the link budget, and stays within a fraction of a degree of the oracle's
// WGS-84 answer for LEO geometries.
func GeodeticToECEF(latDeg, lonDeg, elevationM float64) Vec3 {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	r := EarthRadiusKm + elevationM/1000

	return Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// ElevationDegrees returns the elevation angle of the target as seen from
// the observer, in degrees. 0° = geometric horizon, 90° = overhead.
func ElevationDegrees(observer, target Vec3) float64 {
	v := target.Sub(observer)
	vNorm := v.Norm()
	if vNorm == 0 {
		return 90
	}

	// Local zenith at the observer is its normalised position vector.
	r := observer.Norm()
	if r == 0 {
		return 90
	}
	zenith := Vec3{X: observer.X / r, Y: observer.Y / r, Z: observer.Z / r}

	cosGamma := v.Dot(zenith) / vNorm
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	gammaDeg := math.Acos(cosGamma) * 180 / math.Pi

	// Elevation is measured from the local horizon (90° − zenith angle).
	return 90 - gammaDeg
}
