package api

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultMaxRetries = 5
	defaultMaxDelay   = time.Minute
)

// RateLimitTransport throttles outgoing requests and retries responses
// rejected with 429 Too Many Requests. Both Bitbucket flavors send
// Retry-After with a 429; when it is missing the delay doubles from one
// second.
type RateLimitTransport struct {
	ReqPerSec  float64           // 0 = unlimited (retry-only)
	MaxRetries int               // 0 = defaultMaxRetries
	MaxDelay   time.Duration     // 0 = defaultMaxDelay
	Base       http.RoundTripper // nil = http.DefaultTransport
	Log        *log.Logger       // nil = no retry logging

	once  sync.Once
	ticks <-chan time.Time
}

func (t *RateLimitTransport) init() {
	if t.ReqPerSec > 0 {
		// The ticker lives as long as the transport, which is process-wide.
		t.ticks = time.NewTicker(time.Duration(float64(time.Second) / t.ReqPerSec)).C
	}
}

func (t *RateLimitTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RateLimitTransport) maxRetries() int {
	if t.MaxRetries > 0 {
		return t.MaxRetries
	}
	return defaultMaxRetries
}

// RoundTrip implements http.RoundTripper. A request with a body is only
// retried when the body can be rewound through GetBody.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.once.Do(t.init)
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		if t.ticks != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.ticks:
			}
		}

		resp, err := t.base().RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.maxRetries() {
			return resp, nil
		}
		if req.Body != nil && req.GetBody == nil {
			return resp, nil
		}

		delay := t.retryDelay(resp.Header.Get("Retry-After"), attempt, time.Now())
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if t.Log != nil {
			t.Log.Debug("Rate limited, retrying", "url", req.URL.Redacted(), "attempt", attempt+1, "delay", delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req = req.Clone(ctx)
			req.Body = body
		}
	}
}

// retryDelay returns how long to wait before retry number attempt+1.
// retryAfter is either a number of seconds or an HTTP date.
func (t *RateLimitTransport) retryDelay(retryAfter string, attempt int, now time.Time) time.Duration {
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		delay = time.Duration(secs) * time.Second
	} else if when, err := http.ParseTime(retryAfter); err == nil {
		if d := when.Sub(now); d > 0 {
			delay = d
		}
	}

	maxDelay := t.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	return min(delay, maxDelay)
}
