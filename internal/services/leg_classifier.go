package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/geo"
)

// FlightThresholdMiles is the straight-line length above which a leg is flown.
const FlightThresholdMiles = 100.0

const defaultLookupConcurrency = 4

// BuildWaypoints projects the routable itinerary items onto waypoints.
// Items without usable coordinates are skipped; routable items must carry a
// unique, non-empty identifier so the new order can be merged back.
func BuildWaypoints(items []domain.ItineraryItem) ([]domain.Waypoint, error) {
	seen := make(map[string]int, len(items))
	out := make([]domain.Waypoint, 0, len(items))

	for i, it := range items {
		coords, ok := it.Coordinates()
		if !ok {
			continue
		}

		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, fmt.Errorf("build waypoints: item at index %d: %w: empty id", i, domain.ErrInvalidItinerary)
		}
		if first, dup := seen[id]; dup {
			return nil, fmt.Errorf(
				"build waypoints: items at index %d and %d: %w: duplicate id %q",
				first, i, domain.ErrInvalidItinerary, id,
			)
		}
		seen[id] = i

		out = append(out, domain.Waypoint{ID: id, Coordinates: coords, OriginalIndex: i})
	}

	return out, nil
}

// ClassifyMode labels a hop by its great-circle length only.
func ClassifyMode(from, to domain.Coordinates) domain.TransportMode {
	if geo.KmToMiles(geo.DistanceKm(from, to)) > FlightThresholdMiles {
		return domain.ModeFlight
	}
	return domain.ModeCar
}

// ClassifyLegs builds one leg per consecutive waypoint pair and resolves its distance.
//
// Flight legs are resolved inline. Car legs are resolved with at most
// `concurrency` lookups in flight; results are stored by leg index, so the
// output does not depend on completion order. The only error is a cancelled context.
func ClassifyLegs(
	ctx context.Context,
	waypoints []domain.Waypoint,
	resolver LegDistanceResolver,
	concurrency int,
) ([]domain.Leg, error) {
	if len(waypoints) < 2 {
		return []domain.Leg{}, nil
	}
	if concurrency < 1 {
		concurrency = defaultLookupConcurrency
	}

	legs := make([]domain.Leg, len(waypoints)-1)
	for i := range legs {
		start, end := waypoints[i], waypoints[i+1]
		legs[i] = domain.Leg{
			Start: start,
			End:   end,
			Mode:  ClassifyMode(start.Coordinates, end.Coordinates),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range legs {
		leg := &legs[i]
		if leg.Mode != domain.ModeCar {
			d := resolver.Resolve(ctx, leg.Mode, leg.Start.Coordinates, leg.End.Coordinates)
			leg.DistanceKm, leg.Source = d.Km, d.Source
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := resolver.Resolve(gctx, leg.Mode, leg.Start.Coordinates, leg.End.Coordinates)
			leg.DistanceKm, leg.Source = d.Km, d.Source
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify legs: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classify legs: %w", err)
	}

	return legs, nil
}

// PartitionByMode collects the endpoints of every leg per mode, deduplicated by
// identifier and kept in first-seen itinerary order. The first element of each
// set is the anchor of that mode's tour.
func PartitionByMode(legs []domain.Leg) (flight []domain.Waypoint, car []domain.Waypoint) {
	seenFlight := make(map[string]struct{})
	seenCar := make(map[string]struct{})
	flight = []domain.Waypoint{}
	car = []domain.Waypoint{}

	add := func(set *[]domain.Waypoint, seen map[string]struct{}, w domain.Waypoint) {
		if _, ok := seen[w.ID]; ok {
			return
		}
		seen[w.ID] = struct{}{}
		*set = append(*set, w)
	}

	for _, leg := range legs {
		switch leg.Mode {
		case domain.ModeFlight:
			add(&flight, seenFlight, leg.Start)
			add(&flight, seenFlight, leg.End)
		case domain.ModeCar:
			add(&car, seenCar, leg.Start)
			add(&car, seenCar, leg.End)
		}
	}

	return flight, car
}

// LegTotals sums the resolved distance of the legs per mode.
func LegTotals(legs []domain.Leg) (flightKm, carKm float64) {
	for _, leg := range legs {
		switch leg.Mode {
		case domain.ModeFlight:
			flightKm += leg.DistanceKm
		case domain.ModeCar:
			carKm += leg.DistanceKm
		}
	}
	return flightKm, carKm
}
