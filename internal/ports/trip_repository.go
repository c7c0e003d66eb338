package ports

import (
	"context"
	"itinerary-optimizer-service/internal/domain"
)

// Port: a boundary for reading and writing trip itineraries.
// Both methods return domain.ErrTripNotFound for unknown trip identifiers.
type TripRepository interface {
	// Retrieve the ordered itinerary of a trip.
	LoadItinerary(ctx context.Context, tripID string) ([]domain.ItineraryItem, error)
	// Replace the itinerary of a trip in a single write.
	SaveItinerary(ctx context.Context, tripID string, items []domain.ItineraryItem) error
}
