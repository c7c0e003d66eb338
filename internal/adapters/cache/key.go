package cache

import (
	"fmt"
	"math"

	"itinerary-optimizer-service/internal/domain"
)

// Five decimal places is roughly one meter, well below routing precision.
const keyPrecision = 1e5

func roundCoord(v float64) float64 {
	return math.Round(v*keyPrecision) / keyPrecision
}

// PairKey builds the cache key for a directed origin -> destination lookup.
func PairKey(origin, destination domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f",
		roundCoord(origin.Lat), roundCoord(origin.Lon),
		roundCoord(destination.Lat), roundCoord(destination.Lon),
	)
}
