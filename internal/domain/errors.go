package domain

import "errors"

var (
	// ErrTripNotFound is returned when a trip identifier does not resolve in the trip store,
	// or when the trip has no stop that can be placed on a map.
	ErrTripNotFound = errors.New("trip not found")

	// ErrInvalidItinerary marks itineraries the optimizer cannot reorder safely,
	// e.g. two routable stops sharing one identifier.
	ErrInvalidItinerary = errors.New("invalid itinerary")
)
