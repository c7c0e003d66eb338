package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"itinerary-optimizer-service/internal/adapters/cache"
	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
	"itinerary-optimizer-service/internal/ports"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSDistanceProvider implements RoadDistanceProvider using OpenRouteService.
//
// It coordinates:
//   - Coordinate validation
//   - Volatile distance caching (optional)
//   - External matrix API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	client        *http.Client
	apiKey        string
	baseURL       string
	profile       string
	maxAttempts   int
	backoff       time.Duration
	distanceCache ports.DistanceCache
}

func NewORSDistanceProvider(
	apiKey string,
	baseURL string,
	distanceCache ports.DistanceCache,
) (*ORSDistanceProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}

	provider := &ORSDistanceProvider{
		client:        &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       baseURL,
		profile:       "driving-car",
		maxAttempts:   3,
		backoff:       200 * time.Millisecond,
		distanceCache: distanceCache,
	}

	return provider, nil
}

// GetDrivingDistance returns the road distance from origin to destination.
// Successful lookups are written to the distance cache; failures never are.
func (o *ORSDistanceProvider) GetDrivingDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDrivingDistance")(&err)

	if err := origin.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: destination: %w", err)
	}

	if origin == destination {
		return ports.DistanceResult{}, nil
	}
	key := cache.PairKey(origin, destination)

	// Check the distance cache before issuing an external API call.
	if o.distanceCache != nil {
		hit, ok, err := o.distanceCache.Get(ctx, key)
		if err != nil {
			log.Printf("distance cache read failed key=%s: %v", key, err)
		} else if ok {
			return hit, nil
		}
	}

	result, err := o.fetchDistance(ctx, origin, destination)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance %s -> %s: %w", origin, destination, err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.Put(ctx, key, result); err != nil {
			log.Printf("distance cache write failed key=%s: %v", key, err)
		}
	}

	return result, nil
}
