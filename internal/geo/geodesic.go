// Package geo holds great-circle helpers on WGS-84 coordinates.
package geo

import (
	"math"

	"itinerary-optimizer-service/internal/domain"
)

const (
	// EarthRadiusKm is the IUGG mean earth radius.
	EarthRadiusKm = 6371.0088

	KmPerMile = 1.609344
)

// DistanceKm returns the haversine great-circle distance between a and b.
// It is symmetric and returns exactly 0 for identical points.
func DistanceKm(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}

	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func KmToMiles(km float64) float64 { return km / KmPerMile }

func MilesToKm(mi float64) float64 { return mi * KmPerMile }

// PathKm returns the summed distance of consecutive points.
func PathKm(points []domain.Coordinates) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += DistanceKm(points[i], points[i+1])
	}
	return total
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
