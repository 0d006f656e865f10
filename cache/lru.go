package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ZaguanLabs/teamtl"
)

// LRUStore is a bounded in-process record store. When full, the least recently
// used record is evicted; an evicted key simply becomes a miss.
type LRUStore struct {
	lru *lru.Cache[teamtl.CacheKey, teamtl.CacheRecord]
}

// NewLRUStore creates a store holding at most size records.
func NewLRUStore(size int) (*LRUStore, error) {
	l, err := lru.New[teamtl.CacheKey, teamtl.CacheRecord](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{lru: l}, nil
}

// Get returns a copy of the record for key, or nil if absent.
func (s *LRUStore) Get(ctx context.Context, key teamtl.CacheKey) (*teamtl.CacheRecord, error) {
	rec, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put replaces the record for rec's key.
func (s *LRUStore) Put(ctx context.Context, rec *teamtl.CacheRecord) error {
	s.lru.Add(rec.Key(), *rec)
	return nil
}

// Len returns the number of records.
func (s *LRUStore) Len() int {
	return s.lru.Len()
}

// Records returns copies of all records, oldest first.
func (s *LRUStore) Records(ctx context.Context) ([]*teamtl.CacheRecord, error) {
	values := s.lru.Values()
	out := make([]*teamtl.CacheRecord, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out, nil
}

var (
	_ RecordStore = (*LRUStore)(nil)
	_ Lister      = (*LRUStore)(nil)
)
