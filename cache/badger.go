package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ZaguanLabs/teamtl"
)

// BadgerStore is an embedded, persistent record store.
type BadgerStore struct {
	db        *badger.DB
	keyPrefix []byte
}

// BadgerConfig holds configuration for BadgerDB.
type BadgerConfig struct {
	DataDir  string // Directory for data storage (required unless InMemory)
	InMemory bool   // Keep everything in memory; useful for tests
}

// NewBadgerStore opens (or creates) a BadgerDB-backed record store.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.DataDir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("DataDir is required")
	}

	opts := badger.DefaultOptions(cfg.DataDir).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &BadgerStore{db: db, keyPrefix: []byte(DefaultKeyPrefix)}, nil
}

func (s *BadgerStore) dbKey(key teamtl.CacheKey) []byte {
	return append(append([]byte{}, s.keyPrefix...), key.String()...)
}

// Get retrieves the record for key. A missing key is not an error.
func (s *BadgerStore) Get(ctx context.Context, key teamtl.CacheKey) (*teamtl.CacheRecord, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.dbKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeRecord(data)
}

// Put overwrites the record for rec's key.
func (s *BadgerStore) Put(ctx context.Context, rec *teamtl.CacheRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.dbKey(rec.Key()), data)
	})
}

// Records iterates all records in key order. Malformed values are skipped.
func (s *BadgerStore) Records(ctx context.Context) ([]*teamtl.CacheRecord, error) {
	var out []*teamtl.CacheRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if rec, err := decodeRecord(data); err == nil {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// RunGC reclaims value-log space left by overwritten records.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close releases all BadgerDB resources.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var (
	_ RecordStore = (*BadgerStore)(nil)
	_ Lister      = (*BadgerStore)(nil)
)
