// Package retry wraps fallible operations with classified retries and
// exponential backoff. It knows nothing about providers; classification is
// pluggable and the default recognizes the transient failure classes the
// provider package raises.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/kowshik24/papertocode/provider"
)

// Sleeper is an interface for sleeping, allowing tests to override delays.
type Sleeper interface {
	Sleep(d time.Duration)
}

// realSleeper implements Sleeper using time.Sleep.
type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// DefaultSleeper is the production sleeper.
var DefaultSleeper Sleeper = realSleeper{}

// Options configures Do. The zero value is not usable; start from Defaults.
type Options struct {
	MaxAttempts  int           // total attempts, minimum 1
	InitialDelay time.Duration // first backoff delay
	MaxDelay     time.Duration // cap on the pre-jitter delay
	Multiplier   float64       // backoff growth factor

	// IsRetryable classifies errors; nil means DefaultRetryable.
	IsRetryable func(error) bool

	// OnRetry, if set, observes each scheduled retry before the wait.
	// It has no effect on control flow.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Sleeper overrides how waits happen; nil means DefaultSleeper.
	Sleeper Sleeper
}

// Defaults returns the retry options used for provider calls.
func Defaults() Options {
	return Options{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// DelayForAttempt calculates the jittered delay after a failed attempt
// (1-indexed): min(initial * multiplier^(attempt-1), max), then a uniform
// plus-or-minus 25% jitter, rounded to whole milliseconds. Jitter keeps
// concurrent generations from retrying in lockstep.
func (o Options) DelayForAttempt(attempt int) time.Duration {
	if o.InitialDelay <= 0 {
		return 0
	}
	delay := float64(o.InitialDelay) * math.Pow(o.Multiplier, float64(attempt-1))
	if delay > float64(o.MaxDelay) {
		delay = float64(o.MaxDelay)
	}
	delay = delay * (0.75 + rand.Float64()*0.5)
	return time.Duration(delay).Round(time.Millisecond)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is exhausted. The error from the final attempt is
// returned unchanged so callers can branch on its kind.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	var zero T

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	isRetryable := opts.IsRetryable
	if isRetryable == nil {
		isRetryable = DefaultRetryable
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxAttempts || !isRetryable(err) {
			return zero, err
		}

		delay := opts.DelayForAttempt(attempt)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err, delay)
		}

		if err := wait(ctx, delay, opts.Sleeper); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// wait blocks for the backoff delay. Cancellation aborts the wait itself;
// it never aborts a request already in flight. A non-nil Sleeper (tests)
// replaces the timer entirely.
func wait(ctx context.Context, delay time.Duration, sleeper Sleeper) error {
	if sleeper != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sleeper.Sleep(delay)
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryableSubstrings are the message signals treated as transient when no
// typed classification is available.
var retryableSubstrings = []string{
	"rate limit",
	"timeout",
	"timed out",
	"network",
	"connection reset",
	"temporarily unavailable",
	"service unavailable",
}

// DefaultRetryable reports whether err is a transient failure worth
// retrying: a rate limit, a provider 5xx, a connectivity failure, a net
// timeout, or a message carrying a known transient signal. Auth failures
// and malformed-request errors are permanent.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}

	var authErr *provider.AuthError
	if errors.As(err, &authErr) {
		return false
	}

	var rateErr *provider.RateLimitError
	var serverErr *provider.ServerError
	var connErr *provider.ConnectivityError
	if errors.As(err, &rateErr) || errors.As(err, &serverErr) || errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range retryableSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
