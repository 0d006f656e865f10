// Package cache provides stores for translation cache records.
//
// Stores only persist records; deciding whether a record is still valid for a
// team's current history is the service's job.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZaguanLabs/teamtl"
)

// RecordStore is an alias to the main package interface for convenience.
type RecordStore = teamtl.RecordStore

// Lister is implemented by stores that can enumerate their records.
type Lister interface {
	Records(ctx context.Context) ([]*teamtl.CacheRecord, error)
}

// DefaultKeyPrefix namespaces records in shared keyspaces.
const DefaultKeyPrefix = "teamtl:translation:"

func encodeRecord(rec *teamtl.CacheRecord) ([]byte, error) {
	return json.Marshal(rec)
}

func decodeRecord(data []byte) (*teamtl.CacheRecord, error) {
	var rec teamtl.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed record: %w", err)
	}
	if rec.EntityID == "" || rec.TargetLang == "" {
		return nil, fmt.Errorf("malformed record: missing key fields")
	}
	return &rec, nil
}
