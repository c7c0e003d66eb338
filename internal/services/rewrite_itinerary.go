package services

import (
	"sort"

	"itinerary-optimizer-service/internal/domain"
)

// RewriteItinerary applies the optimized tours to the stored itinerary.
//
// The new visiting order is the tours concatenated in the given order, keeping
// the first occurrence of each identifier. Items are moved whole, so fields
// outside the waypoint projection survive. Items no tour touches keep their
// original slot; the touched slots are refilled in the new order.
func RewriteItinerary(items []domain.ItineraryItem, tours ...domain.Tour) []domain.ItineraryItem {
	out := make([]domain.ItineraryItem, len(items))
	copy(out, items)

	seen := make(map[string]struct{})
	order := make([]int, 0, len(items))
	for _, t := range tours {
		for _, w := range t.Waypoints {
			if _, ok := seen[w.ID]; ok {
				continue
			}
			if w.OriginalIndex < 0 || w.OriginalIndex >= len(items) {
				continue
			}
			seen[w.ID] = struct{}{}
			order = append(order, w.OriginalIndex)
		}
	}

	slots := make([]int, len(order))
	copy(slots, order)
	sort.Ints(slots)

	for k, slot := range slots {
		out[slot] = items[order[k]]
	}

	return out
}
