package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineDistance_KnownFixture(t *testing.T) {
	// One degree-hundredth of latitude in San Francisco ≈ 1112 m
	d := HaversineDistance(37.7749, -122.4194, 37.7849, -122.4194)
	require.InDelta(t, 1112, d, 5)
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{37.7749, -122.4194, 40.7128, -74.0060},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 0, 0.001, 0.001},
	}
	for _, p := range pairs {
		ab := HaversineDistance(p[0], p[1], p[2], p[3])
		ba := HaversineDistance(p[2], p[3], p[0], p[1])
		require.InDelta(t, ab, ba, 1e-9)
	}
}

func TestHaversineDistance_CoincidentPoints(t *testing.T) {
	d := HaversineDistance(37.7749, -122.4194, 37.7749, -122.4194)
	require.False(t, math.IsNaN(d))
	require.Zero(t, d)
}

func TestHaversineDistance_AntipodalPoints(t *testing.T) {
	// Half the circumference, no NaN from the asin domain
	d := HaversineDistance(0, 0, 0, 180)
	require.False(t, math.IsNaN(d))
	require.InDelta(t, math.Pi*EarthRadiusMeters, d, 1)
}
