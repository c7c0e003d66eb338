package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-optimizer-service/internal/adapters/cache"
	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/ports"
)

var (
	paris = domain.NewCoordinates(48.8566, 2.3522)
	lyon  = domain.NewCoordinates(45.7640, 4.8357)
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, c ports.DistanceCache) *ORSDistanceProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewORSDistanceProvider("test-key", server.URL, c)
	require.NoError(t, err)
	p.client = server.Client()
	p.backoff = time.Millisecond
	return p
}

func TestORSGetDrivingDistanceSuccess(t *testing.T) {
	var gotReq matrixRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distances":[[465123.6]],"durations":[[16200.2]]}`))
	}, nil)

	res, err := p.GetDrivingDistance(context.Background(), paris, lyon)
	require.NoError(t, err)
	assert.Equal(t, 465124, res.DistanceMeters)
	assert.Equal(t, 16200, res.DurationSeconds)

	assert.Equal(t, [][]float64{{2.3522, 48.8566}, {4.8357, 45.7640}}, gotReq.Locations)
	assert.Equal(t, []int{0}, gotReq.Sources)
	assert.Equal(t, []int{1}, gotReq.Destinations)
}

func TestORSGetDrivingDistanceFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			},
		},
		{
			name: "server error after retries",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"distances": [[`))
			},
		},
		{
			name: "unroutable pair",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"distances":[[null]],"durations":[[null]]}`))
			},
		},
		{
			name: "missing rows",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"distances":[],"durations":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.handler, nil)
			_, err := p.GetDrivingDistance(context.Background(), paris, lyon)
			assert.Error(t, err)
		})
	}
}

func TestORSRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"distances":[[1000]],"durations":[[60]]}`))
	}, nil)

	res, err := p.GetDrivingDistance(context.Background(), paris, lyon)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.DistanceMeters)
	assert.Equal(t, int32(2), calls.Load())
}

func TestORSDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}, nil)

	_, err := p.GetDrivingDistance(context.Background(), paris, lyon)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSUsesDistanceCache(t *testing.T) {
	var calls atomic.Int32
	c := cache.NewMemoryDistanceCache(8)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"distances":[[2500]],"durations":[[180]]}`))
	}, c)

	for i := 0; i < 3; i++ {
		res, err := p.GetDrivingDistance(context.Background(), paris, lyon)
		require.NoError(t, err)
		assert.Equal(t, 2500, res.DistanceMeters)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSDoesNotCacheFailures(t *testing.T) {
	c := cache.NewMemoryDistanceCache(8)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}, c)

	_, err := p.GetDrivingDistance(context.Background(), paris, lyon)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestORSSamePointSkipsRequest(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("routing service should not be called for identical points")
	}, nil)

	res, err := p.GetDrivingDistance(context.Background(), paris, paris)
	require.NoError(t, err)
	assert.Zero(t, res.DistanceMeters)
}

func TestORSNearbyDistinctPointsAreRouted(t *testing.T) {
	// Two meters apart: same cache cell, different stops.
	near := domain.NewCoordinates(paris.Lat+0.000004, paris.Lon)

	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distances":[[2.4]],"durations":[[1.1]]}`))
	}, nil)

	res, err := p.GetDrivingDistance(context.Background(), paris, near)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 2, res.DistanceMeters)
	assert.Equal(t, 1, res.DurationSeconds)
}

func TestORSRespectsContextTimeout(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.GetDrivingDistance(ctx, paris, lyon)
	assert.Error(t, err)
}

func TestNewORSDistanceProviderRequiresKey(t *testing.T) {
	_, err := NewORSDistanceProvider("  ", "", nil)
	assert.Error(t, err)

	p, err := NewORSDistanceProvider("k", "", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultORSBaseURL, p.baseURL)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Second, parseRetryAfter("1"))
	assert.Equal(t, maxRetryAfter, parseRetryAfter("120"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Zero(t, parseRetryAfter("-3"))
}

func TestRetryDelay(t *testing.T) {
	ctx := context.Background()
	wait := 10 * time.Millisecond

	d, retry := retryDelay(ctx, &statusError{Code: http.StatusServiceUnavailable}, wait)
	assert.True(t, retry)
	assert.Equal(t, wait, d)

	d, retry = retryDelay(ctx, &statusError{Code: http.StatusTooManyRequests, RetryAfter: time.Second}, wait)
	assert.True(t, retry)
	assert.Equal(t, time.Second, d)

	_, retry = retryDelay(ctx, &statusError{Code: http.StatusUnauthorized}, wait)
	assert.False(t, retry)

	_, retry = retryDelay(ctx, errMalformedMatrix, wait)
	assert.False(t, retry)
}
