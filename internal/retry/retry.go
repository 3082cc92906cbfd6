// Package retry re-runs operations that lost a race, such as a key save
// rejected by a uniqueness constraint.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OnRetry, if set, is called with the failed attempt number and its
	// error before waiting for the next attempt.
	OnRetry func(attempt int, err error)
}

// DefaultConfig returns the settings used for key allocation. Conflicts
// clear as soon as the competing writer commits, so delays stay short.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   20 * time.Millisecond,
		MaxDelay:    250 * time.Millisecond,
	}
}

// Do runs fn until it succeeds, returns an error shouldRetry rejects, or
// config.MaxAttempts is reached. A nil shouldRetry never retries.
func Do(ctx context.Context, config Config, shouldRetry Predicate, fn func() error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = func(error) bool { return false }
	}

	var err error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if attempt == config.MaxAttempts || !shouldRetry(err) {
			return err
		}
		if config.OnRetry != nil {
			config.OnRetry(attempt, err)
		}

		delay := backoffDelay(config.BaseDelay, config.MaxDelay, attempt)
		if delay <= 0 {
			continue
		}
		if !sleep(ctx, delay) {
			return ctx.Err()
		}
	}

	return err
}

// On returns a Predicate that retries errors matching any of targets
// under errors.Is.
func On(targets ...error) Predicate {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// backoffDelay doubles base per attempt up to limit and applies full
// jitter.
func backoffDelay(base, limit time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base << (max(attempt, 1) - 1)
	if limit > 0 && (delay <= 0 || delay > limit) {
		delay = limit
	}
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(delay) + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
