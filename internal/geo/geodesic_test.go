package geo

import (
	"math"
	"testing"

	"itinerary-optimizer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKmKnownPairs(t *testing.T) {
	tests := []struct {
		name    string
		a, b    domain.Coordinates
		wantKm  float64
		epsilon float64
	}{
		{
			name:    "one degree of latitude",
			a:       domain.NewCoordinates(0, 0),
			b:       domain.NewCoordinates(1, 0),
			wantKm:  111.195,
			epsilon: 0.01,
		},
		{
			name:    "new york to los angeles",
			a:       domain.NewCoordinates(40.7128, -74.0060),
			b:       domain.NewCoordinates(34.0522, -118.2437),
			wantKm:  3936,
			epsilon: 5,
		},
		{
			name:    "antipodes",
			a:       domain.NewCoordinates(0, 0),
			b:       domain.NewCoordinates(0, 180),
			wantKm:  math.Pi * EarthRadiusKm,
			epsilon: 1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.epsilon)
		})
	}
}

func TestDistanceKmSymmetricAndNonNegative(t *testing.T) {
	points := []domain.Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 89.9, Lon: 179.9},
		{Lat: -90, Lon: -180},
		{Lat: 35.6762, Lon: 139.6503},
	}

	for _, a := range points {
		for _, b := range points {
			ab := DistanceKm(a, b)
			ba := DistanceKm(b, a)
			require.Equal(t, ab, ba, "distance must be symmetric for %v %v", a, b)
			require.GreaterOrEqual(t, ab, 0.0)
			if a == b {
				require.Zero(t, ab)
			} else {
				require.Greater(t, ab, 0.0)
			}
		}
	}
}

func TestPathKm(t *testing.T) {
	a := domain.NewCoordinates(0, 0)
	b := domain.NewCoordinates(0, 1)
	c := domain.NewCoordinates(0, 2)

	assert.Zero(t, PathKm(nil))
	assert.Zero(t, PathKm([]domain.Coordinates{a}))
	assert.InDelta(t, DistanceKm(a, b)+DistanceKm(b, c), PathKm([]domain.Coordinates{a, b, c}), 1e-9)
}

func TestMilesConversion(t *testing.T) {
	assert.InDelta(t, 160.9344, MilesToKm(100), 1e-9)
	assert.InDelta(t, 100, KmToMiles(160.9344), 1e-9)
}
