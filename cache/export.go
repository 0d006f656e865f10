package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ZaguanLabs/teamtl"
)

// ExportFormatVersion is written into every export.
const ExportFormatVersion = "1.0"

// ExportFormat represents the JSON structure for record export/import.
type ExportFormat struct {
	Version    string                `json:"version"`
	ExportedAt string                `json:"exported_at"`
	Records    []*teamtl.CacheRecord `json:"records"`
	Metadata   map[string]string     `json:"metadata,omitempty"`
}

// Exporter dumps a store's records as JSON.
type Exporter struct {
	store Lister
}

// NewExporter creates a new exporter. It fails for stores that cannot list records.
func NewExporter(store RecordStore) (*Exporter, error) {
	lister, ok := store.(Lister)
	if !ok {
		return nil, fmt.Errorf("store type %T does not support export", store)
	}
	return &Exporter{store: lister}, nil
}

// Export writes all records to w, sorted by key.
func (e *Exporter) Export(ctx context.Context, w io.Writer, metadata map[string]string) (int, error) {
	records, err := e.store.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key().String() < records[j].Key().String()
	})

	export := ExportFormat{
		Version:    ExportFormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Records:    records,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}

	return len(records), nil
}

// ExportToFile exports the records to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(ctx context.Context, path string, metadata map[string]string) (int, error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}

	w := bufio.NewWriter(f)
	n, err := e.Export(ctx, w, metadata)
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing file: %w", err)
	}
	return n, nil
}

// Importer loads exported records into a store.
type Importer struct {
	store RecordStore
}

// NewImporter creates a new importer.
func NewImporter(store RecordStore) *Importer {
	return &Importer{store: store}
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int // Entries missing key fields
	Failed   int // Entries the store rejected
}

// Import reads an export from r and writes every record into the store.
// Imported records keep their source snapshot, so they are only served
// while it still matches the team's history.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, rec := range export.Records {
		if rec == nil || rec.EntityID == "" || rec.TargetLang == "" {
			result.Skipped++
			continue
		}
		if err := i.store.Put(ctx, rec); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports records from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}
