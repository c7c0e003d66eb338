package distance

import (
	"context"
	"fmt"
	"sync"

	"itinerary-optimizer-service/internal/adapters/cache"
	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed road distances and fails for unknown pairs.
// It counts calls so tests can assert on fan-out and caching behaviour.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	err   error
	mu    sync.Mutex
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[cache.PairKey(p.From, p.To)] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

// NewFailingDistanceProvider returns a provider whose every lookup fails with err.
func NewFailingDistanceProvider(err error) *MockDistanceProvider {
	return &MockDistanceProvider{m: map[string]ports.DistanceResult{}, err: err}
}

func (p *MockDistanceProvider) GetDrivingDistance(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}
	if p.err != nil {
		return ports.DistanceResult{}, p.err
	}

	r, ok := p.m[cache.PairKey(origin, destination)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", origin, destination)
	}

	return r, nil
}

func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
