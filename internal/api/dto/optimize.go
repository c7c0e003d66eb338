package dto

import "itinerary-optimizer-service/internal/domain"

type LegResponse struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distance_km"`
	Source     string  `json:"source"`
}

type OptimizeResponse struct {
	TripID          string                 `json:"trip_id"`
	DistanceSavedKm float64                `json:"distance_saved_km"`
	MoneySaved      float64                `json:"money_saved"`
	FlightKmBefore  float64                `json:"flight_km_before"`
	FlightKmAfter   float64                `json:"flight_km_after"`
	CarKmBefore     float64                `json:"car_km_before"`
	CarKmAfter      float64                `json:"car_km_after"`
	RoadLookups     int                    `json:"road_lookups"`
	FallbackLookups int                    `json:"fallback_lookups"`
	Persisted       bool                   `json:"persisted"`
	FlightOrder     []string               `json:"flight_order"`
	CarOrder        []string               `json:"car_order"`
	Legs            []LegResponse          `json:"legs"`
	Itinerary       []domain.ItineraryItem `json:"itinerary"`
}

type ItineraryResponse struct {
	TripID    string                 `json:"trip_id"`
	Itinerary []domain.ItineraryItem `json:"itinerary"`
}

func NewOptimizeResponse(res *domain.OptimizationResult) OptimizeResponse {
	out := OptimizeResponse{
		TripID:          res.TripID,
		DistanceSavedKm: res.Savings.DistanceSavedKm,
		MoneySaved:      res.Savings.MoneySaved,
		FlightKmBefore:  res.BeforeFlightKm,
		FlightKmAfter:   res.AfterFlightKm,
		CarKmBefore:     res.BeforeCarKm,
		CarKmAfter:      res.AfterCarKm,
		RoadLookups:     res.RoadLookups,
		FallbackLookups: res.FallbackLookups,
		Persisted:       res.Persisted,
		FlightOrder:     res.FlightTour.IDs(),
		CarOrder:        res.CarTour.IDs(),
		Legs:            make([]LegResponse, 0, len(res.Legs)),
		Itinerary:       res.Itinerary,
	}

	for _, l := range res.Legs {
		out.Legs = append(out.Legs, LegResponse{
			From:       l.Start.ID,
			To:         l.End.ID,
			Mode:       string(l.Mode),
			DistanceKm: l.DistanceKm,
			Source:     string(l.Source),
		})
	}
	if out.Itinerary == nil {
		out.Itinerary = []domain.ItineraryItem{}
	}

	return out
}
