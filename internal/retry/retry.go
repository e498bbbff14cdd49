// Package retry provides a small bounded-retry policy with exponential backoff.
//
// It exists so that the fetch path can be tested with a fake clock instead of
// real sleeps, and so the backoff parameters live in one place rather than in
// an inline loop.
package retry

import (
	"context"
	"time"
)

// Default policy values, matching the collector's fetch behaviour.
const (
	DefaultMaxAttempts = 3
	DefaultInitial     = 1 * time.Second
	DefaultMultiplier  = 2.0
)

// Policy describes a bounded retry schedule.
//
// The zero value is not useful; use Default() or fill in all fields.
// A Policy is immutable after construction and safe to share.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Initial is the delay before the second attempt.
	Initial time.Duration

	// Multiplier scales the delay after each failed attempt.
	Multiplier float64

	// Sleep is the sleep function used between attempts.
	// Defaults to time.Sleep when nil; tests inject a recorder here.
	Sleep func(time.Duration)
}

// Default returns the collector's standard fetch policy:
// 3 attempts, 1s initial backoff, doubling each attempt.
func Default() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Initial:     DefaultInitial,
		Multiplier:  DefaultMultiplier,
	}
}

// Attempts returns the effective attempt budget Do runs: MaxAttempts,
// floored at one. Callers reporting attempt counts should use this rather
// than the raw field.
func (p Policy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs op until it succeeds or the attempt budget is exhausted.
//
// After each failure except the last, Do sleeps the current backoff delay and
// multiplies it. onRetry (optional) is invoked after every failed attempt with
// the 1-based attempt number; callers use it for warning logs.
//
// The context is checked before each attempt; cancellation returns ctx.Err()
// immediately without consuming the remaining attempts.
//
// Returns nil on success, or the error from the final attempt.
func (p Policy) Do(ctx context.Context, op func() error, onRetry func(attempt int, err error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempts := p.Attempts()

	delay := p.Initial
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = op()
		if err == nil {
			return nil
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}

		if attempt < attempts {
			sleep(delay)
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}

	return err
}
