package domain

// TransportMode labels how a leg is travelled.
type TransportMode string

const (
	ModeFlight TransportMode = "flight"
	ModeCar    TransportMode = "car"
)

// DistanceSource records which data source produced a leg distance.
type DistanceSource string

const (
	SourceRoad     DistanceSource = "road"
	SourceGeodesic DistanceSource = "geodesic"
)

// Represents a single routable itinerary stop.
// OriginalIndex is the stop's position in the stored itinerary, so any
// reordering can be traced back to the input.
type Waypoint struct {
	ID            string
	Coordinates   Coordinates
	OriginalIndex int
}

// Represents the directed hop between two consecutive itinerary stops.
// Legs are derived data and are recomputed on every optimization run.
type Leg struct {
	Start      Waypoint
	End        Waypoint
	Mode       TransportMode
	DistanceKm float64
	Source     DistanceSource
}

// Represents the visiting order chosen for the waypoints of one transport mode.
// A Tour is a permutation of its input; the first waypoint is the anchor.
type Tour struct {
	Mode      TransportMode
	Waypoints []Waypoint
}

// IDs returns the waypoint identifiers in tour order.
func (t Tour) IDs() []string {
	ids := make([]string, 0, len(t.Waypoints))
	for _, w := range t.Waypoints {
		ids = append(ids, w.ID)
	}
	return ids
}

type SavingsEstimate struct {
	DistanceSavedKm float64
	MoneySaved      float64
}

// Represents the outcome of one optimization request.
// It is immutable planning data; Persisted reports whether the new order was written back.
type OptimizationResult struct {
	TripID          string
	Savings         SavingsEstimate
	BeforeFlightKm  float64
	AfterFlightKm   float64
	BeforeCarKm     float64
	AfterCarKm      float64
	Legs            []Leg
	FlightTour      Tour
	CarTour         Tour
	Itinerary       []ItineraryItem
	RoadLookups     int
	FallbackLookups int
	Persisted       bool
}
