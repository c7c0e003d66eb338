package services

import (
	"math"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/geo"
)

// Build a visiting order using a greedy nearest-neighbor algorithm.
//
// The tour starts at the first waypoint and always extends to the closest
// unvisited waypoint by great-circle distance, whatever the transport mode.
// It does not attempt global route optimization (e.g., 2-opt or exact TSP).
// The design prioritizes determinism and simplicity over optimality.
//
// Sets of two or fewer waypoints are returned unchanged.
func NearestNeighborTour(mode domain.TransportMode, waypoints []domain.Waypoint) domain.Tour {
	ordered := make([]domain.Waypoint, 0, len(waypoints))

	if len(waypoints) <= 2 {
		ordered = append(ordered, waypoints...)
		return domain.Tour{Mode: mode, Waypoints: ordered}
	}

	remaining := make([]domain.Waypoint, len(waypoints)-1)
	copy(remaining, waypoints[1:])

	current := waypoints[0]
	ordered = append(ordered, current)

	for len(remaining) > 0 {
		bestIdx := -1
		minDistance := math.Inf(1)

		// Select next stop by minimum straight-line distance (greedy step).
		for i, w := range remaining {
			d := geo.DistanceKm(current.Coordinates, w.Coordinates)
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if d < minDistance || (d == minDistance && w.OriginalIndex < remaining[bestIdx].OriginalIndex) {
				minDistance = d
				bestIdx = i
			}
		}

		current = remaining[bestIdx]
		ordered = append(ordered, current)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return domain.Tour{Mode: mode, Waypoints: ordered}
}

// TourDistanceKm sums the great-circle distance between consecutive tour stops.
func TourDistanceKm(t domain.Tour) float64 {
	points := make([]domain.Coordinates, 0, len(t.Waypoints))
	for _, w := range t.Waypoints {
		points = append(points, w.Coordinates)
	}
	return geo.PathKm(points)
}
