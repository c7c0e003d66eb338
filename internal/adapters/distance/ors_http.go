package distance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Upper bound for a server-provided Retry-After delay.
const maxRetryAfter = 2 * time.Second

type statusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Body)
}

func (e *statusError) transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func (o *ORSDistanceProvider) newJSONRequest(ctx context.Context, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// send returns the response only for 2xx statuses; anything else becomes a *statusError.
func (o *ORSDistanceProvider) send(req *http.Request) (*http.Response, error) {
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return nil, &statusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// postWithRetry sends the same JSON body until it succeeds, fails permanently,
// or runs out of attempts. Waits double after every transient failure.
func (o *ORSDistanceProvider) postWithRetry(ctx context.Context, url string, body []byte) (*http.Response, error) {
	attempts := max(o.maxAttempts, 1)
	wait := o.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := o.newJSONRequest(ctx, url, body)
		if err != nil {
			return nil, err
		}

		resp, err := o.send(req)
		if err == nil {
			return resp, nil
		}

		delay, retry := retryDelay(ctx, err, wait)
		if !retry || attempt >= attempts {
			return nil, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// retryDelay decides whether err is worth another attempt and how long to wait first.
func retryDelay(ctx context.Context, err error, wait time.Duration) (time.Duration, bool) {
	var se *statusError
	if errors.As(err, &se) {
		if !se.transient() {
			return 0, false
		}
		if se.RetryAfter > wait {
			return se.RetryAfter, true
		}
		return wait, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && ctx.Err() == nil {
		return wait, true
	}
	return 0, false
}

// parseRetryAfter reads the delay-seconds form of Retry-After, capped at maxRetryAfter.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}
