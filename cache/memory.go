package cache

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/teamtl"
)

// MemoryStore is a thread-safe, unbounded in-process record store.
type MemoryStore struct {
	records map[teamtl.CacheKey]teamtl.CacheRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[teamtl.CacheKey]teamtl.CacheRecord),
	}
}

// Get returns a copy of the record for key, or nil if absent.
func (s *MemoryStore) Get(ctx context.Context, key teamtl.CacheKey) (*teamtl.CacheRecord, error) {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put replaces the record for rec's key.
func (s *MemoryStore) Put(ctx context.Context, rec *teamtl.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Key()] = *rec
	return nil
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all records.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[teamtl.CacheKey]teamtl.CacheRecord)
}

// Records returns copies of all records.
func (s *MemoryStore) Records(ctx context.Context) ([]*teamtl.CacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*teamtl.CacheRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec := rec
		out = append(out, &rec)
	}
	return out, nil
}

var (
	_ RecordStore = (*MemoryStore)(nil)
	_ Lister      = (*MemoryStore)(nil)
)
