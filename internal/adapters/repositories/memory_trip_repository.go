package repositories

import (
	"context"
	"fmt"
	"sync"

	"itinerary-optimizer-service/internal/domain"
)

// In-memory implementation of the TripRepository port, used by tests and demos.
// Stored itineraries are copied on the way in and out.
type MemoryTripRepository struct {
	mu    sync.Mutex
	trips map[string][]domain.ItineraryItem
	saves int
}

func NewMemoryTripRepository() *MemoryTripRepository {
	return &MemoryTripRepository{trips: make(map[string][]domain.ItineraryItem)}
}

// Put creates or replaces a trip itinerary.
func (m *MemoryTripRepository) Put(tripID string, items []domain.ItineraryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[tripID] = cloneItems(items)
}

func (m *MemoryTripRepository) LoadItinerary(ctx context.Context, tripID string) ([]domain.ItineraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items, ok := m.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}
	return cloneItems(items), nil
}

func (m *MemoryTripRepository) SaveItinerary(ctx context.Context, tripID string, items []domain.ItineraryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trips[tripID]; !ok {
		return fmt.Errorf("save itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}
	m.trips[tripID] = cloneItems(items)
	m.saves++
	return nil
}

// Saves returns the number of successful SaveItinerary calls.
func (m *MemoryTripRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneItems(items []domain.ItineraryItem) []domain.ItineraryItem {
	out := make([]domain.ItineraryItem, len(items))
	for i, it := range items {
		c := it
		if it.Lat != nil {
			lat := *it.Lat
			c.Lat = &lat
		}
		if it.Lng != nil {
			lng := *it.Lng
			c.Lng = &lng
		}
		if it.Attrs != nil {
			c.Attrs = make(map[string]any, len(it.Attrs))
			for k, v := range it.Attrs {
				c.Attrs[k] = v
			}
		}
		out[i] = c
	}
	return out
}
