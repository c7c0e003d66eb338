package ports

import (
	"context"
	"itinerary-optimizer-service/internal/domain"
)

// Driving distance and travel duration between two coordinates.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving road distance between two coordinates from an external routing service.
type RoadDistanceProvider interface {
	// Return driving distance and estimated duration from origin to destination.
	GetDrivingDistance(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, error)
}
