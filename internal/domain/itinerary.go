package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	itemIDKey    = "id"
	itemDocIDKey = "_id"
	itemLatKey   = "lat"
	itemLngKey   = "lng"
)

// ItineraryItem is one stop of a trip itinerary as stored by the trip store.
//
// Only the identifier and the coordinate pair are interpreted here. Every other
// field (title, notes, budget, ...) is carried in Attrs and written back unchanged.
//
// Items without an "id" fall back to "_id" for their identifier. That value
// stays in Attrs and no "id" key is added on output.
type ItineraryItem struct {
	ID    string
	Lat   *float64
	Lng   *float64
	Attrs map[string]any

	// rawID is the "id" value as it was decoded, so numeric ids keep their type.
	rawID any
}

// Coordinates returns the item's position when both values are present and valid.
func (it ItineraryItem) Coordinates() (Coordinates, bool) {
	if it.Lat == nil || it.Lng == nil {
		return Coordinates{}, false
	}

	c := Coordinates{Lat: *it.Lat, Lon: *it.Lng}
	if err := c.Validate(); err != nil {
		return Coordinates{}, false
	}
	return c, true
}

// ToMap flattens the item into a single document.
func (it ItineraryItem) ToMap() map[string]any {
	out := make(map[string]any, len(it.Attrs)+3)
	for k, v := range it.Attrs {
		out[k] = v
	}

	switch {
	case it.rawID != nil && sameID(it.rawID, it.ID):
		out[itemIDKey] = it.rawID
	case it.ID == "":
	case sameID(out[itemDocIDKey], it.ID):
		// identified by _id only
	default:
		out[itemIDKey] = it.ID
	}
	if it.Lat != nil {
		out[itemLatKey] = *it.Lat
	}
	if it.Lng != nil {
		out[itemLngKey] = *it.Lng
	}
	return out
}

// ItineraryItemFromMap is the inverse of ToMap. Non-numeric lat/lng values are
// kept as plain attributes so they survive a round trip.
func ItineraryItemFromMap(m map[string]any) ItineraryItem {
	it := ItineraryItem{Attrs: make(map[string]any, len(m))}

	for k, v := range m {
		switch k {
		case itemIDKey:
			if id, ok := idString(v); ok {
				it.ID = id
				it.rawID = v
				continue
			}
		case itemLatKey:
			if f, ok := toFloat(v); ok {
				it.Lat = &f
				continue
			}
		case itemLngKey:
			if f, ok := toFloat(v); ok {
				it.Lng = &f
				continue
			}
		}
		it.Attrs[k] = v
	}

	if it.rawID == nil {
		if id, ok := idString(it.Attrs[itemDocIDKey]); ok {
			it.ID = id
		}
	}

	return it
}

func (it ItineraryItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.ToMap())
}

func (it *ItineraryItem) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decode itinerary item: %w", err)
	}
	if m == nil {
		return fmt.Errorf("decode itinerary item: expected object, got null")
	}

	*it = ItineraryItemFromMap(m)
	return nil
}

func idString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case map[string]any:
		// ObjectID in extended JSON.
		if len(x) == 1 {
			if oid, ok := x["$oid"].(string); ok {
				return oid, true
			}
		}
	}
	return "", false
}

func sameID(v any, id string) bool {
	s, ok := idString(v)
	return ok && s == id
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
