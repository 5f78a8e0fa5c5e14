package store

import (
	"context"
	stderrors "errors"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore guards another store with a circuit breaker so a failing
// database stops being called until it recovers.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps next with a breaker configured from cfg. When the
// breaker is disabled next is returned unchanged.
func NewBreakerStore(name string, next Store, cfg config.CircuitBreakerConfig, logger *errors.Logger) Store {
	if !cfg.Enabled {
		return next
	}

	settings := gobreaker.Settings{
		Name:        "store-" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		// Rejected records and cancelled callers say nothing about database health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.HasType(err, errors.ErrorTypeValidation) ||
				stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (any, error) {
		value, err := fn()
		return value, err
	})
	if err != nil {
		var zero T
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "score store temporarily unavailable", err).
				WithContext("breaker", cb.Name())
		}
		return zero, err
	}
	return result.(T), nil
}

func (b *BreakerStore) Save(ctx context.Context, record Record) (uuid.UUID, error) {
	return execute(b.cb, func() (uuid.UUID, error) {
		return b.next.Save(ctx, record)
	})
}

func (b *BreakerStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return execute(b.cb, func() (*Record, error) {
		return b.next.Get(ctx, id)
	})
}

func (b *BreakerStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	return execute(b.cb, func() ([]Record, error) {
		return b.next.ListRecent(ctx, limit)
	})
}

// Ping bypasses the breaker so health checks see the real database state.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *BreakerStore) Close() {
	b.next.Close()
}

// Stats returns circuit breaker statistics
func (b *BreakerStore) Stats() map[string]any {
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (b *BreakerStore) IsHealthy() bool {
	return b.cb.State() == gobreaker.StateClosed
}

// BreakerStats reports the breaker statistics of s, or a disabled marker
// when s is not guarded by a breaker.
func BreakerStats(s Store) map[string]any {
	if b, ok := s.(*BreakerStore); ok {
		return b.Stats()
	}
	return map[string]any{"enabled": false}
}
