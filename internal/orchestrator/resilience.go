package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/persistence"
)

// RetryConfig configures exponential backoff for conflicting transactions.
type RetryConfig struct {
	InitialInterval     time.Duration // Initial retry interval (default 5ms)
	MaxInterval         time.Duration // Maximum retry interval (default 250ms)
	MaxElapsedTime      time.Duration // Maximum total retry time (default 3s)
	Multiplier          float64       // Backoff multiplier (default 2.0)
	RandomizationFactor float64       // Jitter factor (default 0.5)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval:     5 * time.Millisecond,
		MaxInterval:         250 * time.Millisecond,
		MaxElapsedTime:      3 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
	}
}

func (c RetryConfig) policy(ctx context.Context) backoff.BackOffContext {
	p := backoff.NewExponentialBackOff()
	p.InitialInterval = c.InitialInterval
	p.MaxInterval = c.MaxInterval
	p.MaxElapsedTime = c.MaxElapsedTime
	p.Multiplier = c.Multiplier
	p.RandomizationFactor = c.RandomizationFactor
	return backoff.WithContext(p, ctx)
}

// ErrUnavailable is returned while the storage circuit breaker is open.
var ErrUnavailable = errors.New("storage unavailable")

// newBreaker guards the database. It trips after 5 consecutive
// infrastructure failures; domain errors and contention do not count.
func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "storage",
		MaxRequests: 3, // Allow 3 test requests in half-open state
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: isHealthy,
	})
}

// isHealthy reports whether err leaves the storage layer looking healthy.
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return board.CodeOf(err) != board.CodeInternal
}

// runTx runs fn in one storage transaction, retrying the whole
// read-decide-write cycle while the store reports ErrConflict.
// prepare, when set, runs before each attempt and returns a release func;
// the mover uses it to take column locks.
func runTx(ctx context.Context, store persistence.Store, cb *gobreaker.CircuitBreaker, cfg RetryConfig,
	prepare func(ctx context.Context) (func(), error), fn func(tx persistence.Tx) error) error {

	operation := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		_, err := cb.Execute(func() (interface{}, error) {
			release := func() {}
			if prepare != nil {
				r, err := prepare(ctx)
				if err != nil {
					return nil, err
				}
				release = r
			}
			defer release()
			return nil, store.WithTx(ctx, fn)
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(errors.Join(ErrUnavailable, err))
		}
		if ctx.Err() != nil || !errors.Is(err, board.ErrConflict) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, cfg.policy(ctx))
}
