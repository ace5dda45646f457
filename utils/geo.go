package utils

import "math"

// EarthRadiusMeters is the mean spherical Earth radius used for distance checks.
const EarthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance in meters between two
// (lat, lng) points given in decimal degrees.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	// Clamp: floating-point rounding can push a hair outside [0,1] for
	// coincident or antipodal points, which would NaN the square roots.
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}
