package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process. It backs the CLI and server when no
// database is configured; records are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]Record
	order    []uuid.UUID
	capacity int
	now      func() time.Time
}

// NewMemoryStore creates a store holding at most capacity records, evicting
// the oldest first. A non-positive capacity means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		records:  make(map[uuid.UUID]Record),
		capacity: capacity,
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, record Record) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	record, err := prepare(record, m.now)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ID]; !exists {
		m.order = append(m.order, record.ID)
	}
	m.records[record.ID] = record.clone()

	if m.capacity > 0 && len(m.order) > m.capacity {
		evicted := m.order[:len(m.order)-m.capacity]
		for _, id := range evicted {
			delete(m.records, id)
		}
		m.order = slices.Clone(m.order[len(evicted):])
	}
	return record.ID, nil
}

func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	record = record.clone()
	return &record, nil
}

func (m *MemoryStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = normalizeLimit(limit)

	m.mu.RLock()
	records := make([]Record, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		records = append(records, m.records[m.order[i]].clone())
	}
	m.mu.RUnlock()

	slices.SortStableFunc(records, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Len reports how many records are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() {}
