package store

import (
	"context"
	"testing"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock advances one minute on every call
func steppingClock() func() time.Time {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	id, err := s.Save(ctx, NewRecord(sampleScore(), "Go engineer"))
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, sampleScore(), got.Score())
	assert.Equal(t, "Go engineer", got.JobDescription)

	got.Improvements[0] = "mutated"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Add missing keywords: kafka", again.Improvements[0])
}

func TestMemoryStoreGetMissing(t *testing.T) {
	got, err := NewMemoryStore(0).Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreRejectsInvalidRecord(t *testing.T) {
	s := NewMemoryStore(0)
	record := NewRecord(sampleScore(), "")
	record.MatchedKeywords = []string{"go", "go"}

	_, err := s.Save(context.Background(), record)
	assert.True(t, errors.HasType(err, errors.ErrorTypeValidation))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreListRecent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	s.now = steppingClock()

	var ids []uuid.UUID
	for range 5 {
		id, err := s.Save(ctx, NewRecord(sampleScore(), ""))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	records, err := s.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ids[4], records[0].ID)
	assert.Equal(t, ids[3], records[1].ID)
	assert.Equal(t, ids[2], records[2].ID)

	all, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	s.now = steppingClock()

	first, err := s.Save(ctx, NewRecord(sampleScore(), "first"))
	require.NoError(t, err)
	_, err = s.Save(ctx, NewRecord(sampleScore(), "second"))
	require.NoError(t, err)
	_, err = s.Save(ctx, NewRecord(sampleScore(), "third"))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	got, err := s.Get(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore(0)
	_, err := s.Save(ctx, NewRecord(sampleScore(), ""))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
