package services

import (
	"context"
	"errors"
	"log"
	"time"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/geo"
	"itinerary-optimizer-service/internal/platform/obs"
	"itinerary-optimizer-service/internal/ports"
)

var errNoRoadProvider = errors.New("routing service not configured")

// LookupStatus is the outcome of one road-distance lookup.
type LookupStatus int

const (
	LookupUnavailable LookupStatus = iota
	LookupSucceeded
)

// RoadLookup holds either a road distance (Succeeded) or the reason the
// routing service could not provide one (Unavailable). It is not an error:
// callers branch on Status.
type RoadLookup struct {
	Status LookupStatus
	Km     float64
	Reason error
}

// LegDistance is the resolved length of a leg and where it came from.
type LegDistance struct {
	Km     float64
	Source domain.DistanceSource
}

// LegDistanceResolver resolves the travel distance of one leg. It never fails.
type LegDistanceResolver interface {
	Resolve(ctx context.Context, mode domain.TransportMode, from, to domain.Coordinates) LegDistance
}

// DistanceResolver prefers road distances for car legs and falls back to the
// great-circle distance whenever the routing service cannot answer.
type DistanceResolver struct {
	road    ports.RoadDistanceProvider
	timeout time.Duration
}

// NewDistanceResolver accepts a nil road provider; every car leg then uses the fallback.
func NewDistanceResolver(road ports.RoadDistanceProvider, timeout time.Duration) *DistanceResolver {
	return &DistanceResolver{road: road, timeout: timeout}
}

func (r *DistanceResolver) Resolve(
	ctx context.Context,
	mode domain.TransportMode,
	from, to domain.Coordinates,
) LegDistance {
	if mode != domain.ModeCar {
		return LegDistance{Km: geo.DistanceKm(from, to), Source: domain.SourceGeodesic}
	}

	lookup := r.lookupRoad(ctx, from, to)
	switch lookup.Status {
	case LookupSucceeded:
		return LegDistance{Km: lookup.Km, Source: domain.SourceRoad}
	default:
		log.Printf(
			"req_id=%s op=distance.fallback from=%s to=%s reason=%v",
			obs.RequestID(ctx), from, to, lookup.Reason,
		)
		return LegDistance{Km: geo.DistanceKm(from, to), Source: domain.SourceGeodesic}
	}
}

// lookupRoad bounds the external call by the resolver timeout.
func (r *DistanceResolver) lookupRoad(ctx context.Context, from, to domain.Coordinates) RoadLookup {
	if r.road == nil {
		return RoadLookup{Status: LookupUnavailable, Reason: errNoRoadProvider}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res, err := r.road.GetDrivingDistance(ctx, from, to)
	if err != nil {
		return RoadLookup{Status: LookupUnavailable, Reason: err}
	}
	if res.DistanceMeters < 0 {
		return RoadLookup{Status: LookupUnavailable, Reason: errors.New("negative road distance")}
	}

	return RoadLookup{Status: LookupSucceeded, Km: float64(res.DistanceMeters) / 1000}
}
