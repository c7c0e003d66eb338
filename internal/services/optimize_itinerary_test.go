package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-optimizer-service/internal/adapters/distance"
	"itinerary-optimizer-service/internal/adapters/repositories"
	"itinerary-optimizer-service/internal/domain"
)

// Lisbon area day trips with a flight to Madrid in the middle.
func mixedTrip() []domain.ItineraryItem {
	return []domain.ItineraryItem{
		{ID: "lis", Lat: fp(lisbon.Lat), Lng: fp(lisbon.Lon), Attrs: map[string]any{"title": "Lisbon", "day": 1}},
		{ID: "mad", Lat: fp(madrid.Lat), Lng: fp(madrid.Lon), Attrs: map[string]any{"title": "Madrid"}},
		{ID: "note", Attrs: map[string]any{"title": "Rest day"}},
		{ID: "toledo", Lat: fp(39.8628), Lng: fp(-4.0273), Attrs: map[string]any{"title": "Toledo"}},
		{ID: "sintra", Lat: fp(sintra.Lat), Lng: fp(sintra.Lon), Attrs: map[string]any{"title": "Sintra", "budget": 25}},
	}
}

func newTestOptimizer(t *testing.T, items []domain.ItineraryItem, resolver LegDistanceResolver) (*ItineraryOptimizer, *repositories.MemoryTripRepository) {
	t.Helper()

	repo := repositories.NewMemoryTripRepository()
	if items != nil {
		repo.Put("trip", items)
	}
	return NewItineraryOptimizer(repo, resolver, 2), repo
}

func TestOptimizeUnknownTripDoesNotWrite(t *testing.T) {
	opt, repo := newTestOptimizer(t, nil, NewDistanceResolver(nil, time.Second))

	_, err := opt.Optimize(context.Background(), "missing", OptimizeOptions{})

	assert.ErrorIs(t, err, domain.ErrTripNotFound)
	assert.Zero(t, repo.Saves())
}

func TestOptimizeEmptyTripID(t *testing.T) {
	opt, _ := newTestOptimizer(t, nil, NewDistanceResolver(nil, time.Second))

	_, err := opt.Optimize(context.Background(), "  ", OptimizeOptions{})
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestOptimizeWithoutRoutingServiceUsesFallback(t *testing.T) {
	opt, repo := newTestOptimizer(t, mixedTrip(), NewDistanceResolver(nil, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	require.NoError(t, err)

	require.Len(t, res.Legs, 3)
	assert.Equal(t, []domain.TransportMode{domain.ModeFlight, domain.ModeCar, domain.ModeFlight},
		[]domain.TransportMode{res.Legs[0].Mode, res.Legs[1].Mode, res.Legs[2].Mode})
	assert.Zero(t, res.RoadLookups)
	assert.Equal(t, 1, res.FallbackLookups)
	assert.True(t, res.Persisted)
	assert.Equal(t, 1, repo.Saves())

	for _, leg := range res.Legs {
		assert.Equal(t, domain.SourceGeodesic, leg.Source)
	}
}

func TestOptimizeCountsRoadAndFallbackLookups(t *testing.T) {
	toledo := domain.Coordinates{Lat: 39.8628, Lon: -4.0273}
	road := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: madrid, To: toledo, Meters: 72000, Seconds: 4200},
	})
	items := []domain.ItineraryItem{
		{ID: "mad", Lat: fp(madrid.Lat), Lng: fp(madrid.Lon), Attrs: map[string]any{}},
		{ID: "toledo", Lat: fp(toledo.Lat), Lng: fp(toledo.Lon), Attrs: map[string]any{}},
		{ID: "lis", Lat: fp(lisbon.Lat), Lng: fp(lisbon.Lon), Attrs: map[string]any{}},
		{ID: "sintra", Lat: fp(sintra.Lat), Lng: fp(sintra.Lon), Attrs: map[string]any{}},
	}
	opt, _ := newTestOptimizer(t, items, NewDistanceResolver(road, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{DryRun: true})
	require.NoError(t, err)

	require.Len(t, res.Legs, 3)
	assert.Equal(t, domain.ModeCar, res.Legs[0].Mode)
	assert.Equal(t, domain.SourceRoad, res.Legs[0].Source)
	assert.Equal(t, domain.ModeFlight, res.Legs[1].Mode)
	assert.Equal(t, domain.ModeCar, res.Legs[2].Mode)
	assert.Equal(t, domain.SourceGeodesic, res.Legs[2].Source)
	assert.Equal(t, 1, res.RoadLookups)
	assert.Equal(t, 1, res.FallbackLookups)
	assert.Equal(t, 2, road.Calls())

	flightKm, carKm := LegTotals(res.Legs)
	assert.Equal(t, flightKm, res.BeforeFlightKm)
	assert.Equal(t, carKm, res.BeforeCarKm)
	assert.InDelta(t, 72+res.Legs[2].DistanceKm, res.BeforeCarKm, 1e-9)
}

func TestOptimizeDryRunSkipsWrite(t *testing.T) {
	opt, repo := newTestOptimizer(t, mixedTrip(), NewDistanceResolver(nil, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{DryRun: true})
	require.NoError(t, err)

	assert.False(t, res.Persisted)
	assert.Zero(t, repo.Saves())
	assert.Len(t, res.Itinerary, 5)
}

func TestOptimizePreservesEveryItemField(t *testing.T) {
	original := mixedTrip()
	opt, repo := newTestOptimizer(t, original, NewDistanceResolver(nil, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	require.NoError(t, err)

	stored, err := repo.LoadItinerary(context.Background(), "trip")
	require.NoError(t, err)
	assert.Equal(t, res.Itinerary, stored)
	require.Len(t, stored, len(original))

	byID := make(map[string]domain.ItineraryItem, len(original))
	for _, it := range original {
		byID[it.ID] = it
	}
	for _, it := range stored {
		assert.Equal(t, byID[it.ID], it, "item %s changed", it.ID)
	}
	assert.Equal(t, "note", stored[2].ID, "items without coordinates keep their slot")
}

func TestOptimizeRejectsInvalidItinerary(t *testing.T) {
	items := []domain.ItineraryItem{
		{ID: "dup", Lat: fp(0), Lng: fp(0), Attrs: map[string]any{}},
		{ID: "dup", Lat: fp(0), Lng: fp(1), Attrs: map[string]any{}},
	}
	opt, repo := newTestOptimizer(t, items, NewDistanceResolver(nil, time.Second))

	_, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidItinerary)
	assert.Zero(t, repo.Saves())
}

func TestOptimizeAcceptsDocumentIDItems(t *testing.T) {
	var items []domain.ItineraryItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id": {"$oid": "64b7f0c2a1b2c3d4e5f60701"}, "lat": 38.7223, "lng": -9.1393},
		{"_id": {"$oid": "64b7f0c2a1b2c3d4e5f60702"}, "lat": 40.4168, "lng": -3.7038},
		{"id": 3, "lat": 38.8029, "lng": -9.3817}
	]`), &items))
	opt, repo := newTestOptimizer(t, items, NewDistanceResolver(nil, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	require.NoError(t, err)
	assert.True(t, res.Persisted)

	stored, err := repo.LoadItinerary(context.Background(), "trip")
	require.NoError(t, err)
	require.Len(t, stored, len(items))

	encode := func(list []domain.ItineraryItem) []string {
		out := make([]string, 0, len(list))
		for _, it := range list {
			b, err := json.Marshal(it)
			require.NoError(t, err)
			out = append(out, string(b))
		}
		return out
	}
	assert.ElementsMatch(t, []string{
		`{"_id":{"$oid":"64b7f0c2a1b2c3d4e5f60701"},"lat":38.7223,"lng":-9.1393}`,
		`{"_id":{"$oid":"64b7f0c2a1b2c3d4e5f60702"},"lat":40.4168,"lng":-3.7038}`,
		`{"id":3,"lat":38.8029,"lng":-9.3817}`,
	}, encode(stored))
}

func TestOptimizeTripWithoutCoordinates(t *testing.T) {
	items := []domain.ItineraryItem{{ID: "a", Attrs: map[string]any{"title": "somewhere"}}}
	opt, repo := newTestOptimizer(t, items, NewDistanceResolver(nil, time.Second))

	_, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
	assert.Zero(t, repo.Saves())
}

func TestOptimizeSingleStopIsUnchanged(t *testing.T) {
	items := []domain.ItineraryItem{
		{ID: "note", Attrs: map[string]any{}},
		{ID: "only", Lat: fp(1), Lng: fp(1), Attrs: map[string]any{}},
	}
	opt, _ := newTestOptimizer(t, items, NewDistanceResolver(nil, time.Second))

	res, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	require.NoError(t, err)

	assert.Empty(t, res.Legs)
	assert.Equal(t, items, res.Itinerary)
	assert.Zero(t, res.Savings.DistanceSavedKm)
	assert.Equal(t, SavingsIntercept, res.Savings.MoneySaved)
}

type failingSaveRepo struct {
	*repositories.MemoryTripRepository
}

func (failingSaveRepo) SaveItinerary(context.Context, string, []domain.ItineraryItem) error {
	return errors.New("disk full")
}

func TestOptimizeSaveFailureIsInternal(t *testing.T) {
	mem := repositories.NewMemoryTripRepository()
	mem.Put("trip", mixedTrip())
	opt := NewItineraryOptimizer(failingSaveRepo{mem}, NewDistanceResolver(nil, time.Second), 1)

	_, err := opt.Optimize(context.Background(), "trip", OptimizeOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTripNotFound)
	assert.NotErrorIs(t, err, domain.ErrInvalidItinerary)
}
