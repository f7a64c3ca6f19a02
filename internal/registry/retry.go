package registry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// RetryPolicy decides whether and when a failed request is repeated.
type RetryPolicy struct {
	// MaxAttempts counts the first request, so 3 means up to two retries.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	RetryableStatuses map[int]bool

	// Jitter scales each delay by a random factor in [0, 1).
	Jitter bool
	Rand   func() float64
}

// DefaultRetryPolicy returns the policy used against the CDN.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		RetryableStatuses: map[int]bool{
			http.StatusRequestTimeout:      true,
			http.StatusTooManyRequests:     true,
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
		Jitter: true,
		Rand:   rand.Float64,
	}
}

// Retries returns how many times a request may be repeated.
func (p RetryPolicy) Retries() int {
	if p.MaxAttempts <= 1 {
		return 0
	}
	return p.MaxAttempts - 1
}

// Backoff returns the delay before retry number attempt (1-based):
// BaseDelay doubled for every earlier retry, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.Jitter {
		r := rand.Float64
		if p.Rand != nil {
			r = p.Rand
		}
		delay *= r()
	}
	return time.Duration(delay)
}

// ShouldRetry reports whether a request that produced resp or err is worth
// repeating. Only timeouts and the retryable status codes qualify.
func (p RetryPolicy) ShouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return isTimeout(err)
	}
	if resp == nil {
		return false
	}
	return p.RetryableStatuses[resp.StatusCode]
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
