package repositories

import (
	"encoding/json"
	"fmt"

	"itinerary-optimizer-service/internal/domain"
)

func encodeItinerary(items []domain.ItineraryItem) ([]byte, error) {
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary: %w", err)
	}
	return b, nil
}

func decodeItinerary(raw []byte) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode itinerary: %w", err)
	}
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	return items, nil
}
