package services

import (
	"context"
	"fmt"
	"strings"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
	"itinerary-optimizer-service/internal/ports"
)

type OptimizeOptions struct {
	// DryRun computes the new order and savings without writing to the trip store.
	DryRun bool
}

// ItineraryOptimizer reorders a trip's stops per transport mode and writes the
// result back. Each call owns its data; the optimizer itself holds no request state.
type ItineraryOptimizer struct {
	repo        ports.TripRepository
	resolver    LegDistanceResolver
	concurrency int
}

func NewItineraryOptimizer(
	repo ports.TripRepository,
	resolver LegDistanceResolver,
	concurrency int,
) *ItineraryOptimizer {
	return &ItineraryOptimizer{
		repo:        repo,
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Optimize runs the full pipeline once: load, classify, reorder, estimate, rewrite.
// There are no retries; the store write is the last step and happens at most once.
func (o *ItineraryOptimizer) Optimize(
	ctx context.Context,
	tripID string,
	opts OptimizeOptions,
) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "itinerary.Optimize")(&err)

	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, fmt.Errorf("optimize itinerary: %w: empty trip id", domain.ErrTripNotFound)
	}

	items, err := o.repo.LoadItinerary(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("optimize itinerary: load trip %q: %w", tripID, err)
	}

	waypoints, err := BuildWaypoints(items)
	if err != nil {
		return nil, fmt.Errorf("optimize itinerary: trip %q: %w", tripID, err)
	}
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("optimize itinerary: trip %q has no stops with coordinates: %w", tripID, domain.ErrTripNotFound)
	}

	legs, err := ClassifyLegs(ctx, waypoints, o.resolver, o.concurrency)
	if err != nil {
		return nil, fmt.Errorf("optimize itinerary: trip %q: %w", tripID, err)
	}

	flightSet, carSet := PartitionByMode(legs)
	beforeFlightKm, beforeCarKm := LegTotals(legs)

	flightTour := NearestNeighborTour(domain.ModeFlight, flightSet)
	carTour := NearestNeighborTour(domain.ModeCar, carSet)
	afterFlightKm := TourDistanceKm(flightTour)
	afterCarKm := TourDistanceKm(carTour)

	savings := EstimateSavings(beforeFlightKm, afterFlightKm, beforeCarKm, afterCarKm)
	rewritten := RewriteItinerary(items, flightTour, carTour)

	result := &domain.OptimizationResult{
		TripID:         tripID,
		Savings:        savings,
		BeforeFlightKm: beforeFlightKm,
		AfterFlightKm:  afterFlightKm,
		BeforeCarKm:    beforeCarKm,
		AfterCarKm:     afterCarKm,
		Legs:           legs,
		FlightTour:     flightTour,
		CarTour:        carTour,
		Itinerary:      rewritten,
	}
	for _, leg := range legs {
		if leg.Mode != domain.ModeCar {
			continue
		}
		if leg.Source == domain.SourceRoad {
			result.RoadLookups++
		} else {
			result.FallbackLookups++
		}
	}

	if opts.DryRun {
		return result, nil
	}

	// A trip deleted between load and save surfaces as ErrTripNotFound through the wrap.
	if err := o.repo.SaveItinerary(ctx, tripID, rewritten); err != nil {
		return nil, fmt.Errorf("optimize itinerary: save trip %q: %w", tripID, err)
	}
	result.Persisted = true

	return result, nil
}
