package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/ports"
)

var errMalformedMatrix = errors.New("malformed matrix response")

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

// ORS reports unroutable pairs as null cells.
type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// cell returns the single source->destination metric pair of a 1x1 matrix.
func (m matrixResponse) cell() (ports.DistanceResult, error) {
	if len(m.Distances) != 1 || len(m.Durations) != 1 {
		return ports.DistanceResult{}, fmt.Errorf(
			"%w: expected 1 source row, got distances=%d durations=%d",
			errMalformedMatrix, len(m.Distances), len(m.Durations),
		)
	}
	if len(m.Distances[0]) != 1 || len(m.Durations[0]) != 1 {
		return ports.DistanceResult{}, fmt.Errorf(
			"%w: expected 1 destination, got distances=%d durations=%d",
			errMalformedMatrix, len(m.Distances[0]), len(m.Durations[0]),
		)
	}

	meters, seconds := m.Distances[0][0], m.Durations[0][0]
	if meters == nil || seconds == nil {
		return ports.DistanceResult{}, fmt.Errorf("%w: no route", errMalformedMatrix)
	}
	if !validMetric(*meters) || !validMetric(*seconds) {
		return ports.DistanceResult{}, fmt.Errorf("%w: invalid metrics %v/%v", errMalformedMatrix, *meters, *seconds)
	}

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(*meters)),
		DurationSeconds: int(math.Round(*seconds)),
	}, nil
}

func validMetric(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fetchDistance asks the matrix endpoint for one origin/destination pair.
func (o *ORSDistanceProvider) fetchDistance(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (ports.DistanceResult, error) {
	payload, err := json.Marshal(matrixRequest{
		Locations:    [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.postWithRetry(ctx, endpoint, payload)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("%w: decode: %v", errMalformedMatrix, err)
	}

	return mr.cell()
}
