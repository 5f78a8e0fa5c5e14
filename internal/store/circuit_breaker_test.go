package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails every call while down is set
type flakyStore struct {
	*MemoryStore
	down  bool
	calls int
}

func (f *flakyStore) Save(ctx context.Context, record Record) (uuid.UUID, error) {
	f.calls++
	if f.down {
		return uuid.Nil, stderrors.New("connection refused")
	}
	return f.MemoryStore.Save(ctx, record)
}

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestBreakerStoreDisabledReturnsInner(t *testing.T) {
	inner := NewMemoryStore(0)
	cfg := breakerConfig()
	cfg.Enabled = false

	s := NewBreakerStore("test", inner, cfg, nil)
	assert.Same(t, inner, s)
}

func TestBreakerStorePassesThrough(t *testing.T) {
	ctx := context.Background()
	s := NewBreakerStore("test", NewMemoryStore(0), breakerConfig(), errors.Discard())

	id, err := s.Save(ctx, NewRecord(sampleScore(), ""))
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	missing, err := s.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	records, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	stats := BreakerStats(s)
	assert.Equal(t, "store-test", stats["name"])
	assert.Equal(t, "closed", stats["state"])
	assert.Equal(t, true, stats["enabled"])
}

func TestBreakerStoreTripsOnFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore(0), down: true}
	s := NewBreakerStore("test", inner, breakerConfig(), errors.Discard())

	for range 3 {
		_, err := s.Save(ctx, NewRecord(sampleScore(), ""))
		require.ErrorContains(t, err, "connection refused")
	}

	breaker := s.(*BreakerStore)
	assert.False(t, breaker.IsHealthy())

	_, err := s.Save(ctx, NewRecord(sampleScore(), ""))
	assert.True(t, errors.HasType(err, errors.ErrorTypeStorage))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStoreUnavailable, appErr.Code)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerStoreIgnoresValidationFailures(t *testing.T) {
	ctx := context.Background()
	s := NewBreakerStore("test", NewMemoryStore(0), breakerConfig(), errors.Discard())

	bad := NewRecord(sampleScore(), "")
	bad.OverallScore = -5
	for range 5 {
		_, err := s.Save(ctx, bad)
		require.True(t, errors.HasType(err, errors.ErrorTypeValidation))
	}

	assert.True(t, s.(*BreakerStore).IsHealthy())
}
