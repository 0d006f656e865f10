package teamtl_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/cache"
	"github.com/ZaguanLabs/teamtl/provider"
	"github.com/ZaguanLabs/teamtl/store"
)

// Integration tests using all real components

func TestIntegration_SQLiteAndBadger(t *testing.T) {
	ctx := context.Background()

	teams, err := store.NewSQLiteStore(store.SQLiteConfig{Path: filepath.Join(t.TempDir(), "teams.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer teams.Close()

	records, err := cache.NewBadgerStore(cache.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerStore failed: %v", err)
	}
	defer records.Close()

	teams.PutTeam(ctx, &teamtl.Team{ID: 7, TeamName: "Kilkenny Kings", History: "Founded in 1970."})

	p := provider.NewMockProvider()
	svc := teamtl.NewService(teams, records, p)

	first, err := svc.LookupOrTranslate(ctx, "7", "es")
	if err != nil {
		t.Fatalf("LookupOrTranslate failed: %v", err)
	}
	if first.WasCached || first.TranslatedText != "Fundado en 1970." {
		t.Errorf("first = %+v", first)
	}

	second, _ := svc.LookupOrTranslate(ctx, "7", "es")
	if !second.WasCached || second.TranslatedText != "Fundado en 1970." {
		t.Errorf("second = %+v", second)
	}

	teams.PutTeam(ctx, &teamtl.Team{ID: 7, TeamName: "Kilkenny Kings", History: "Founded in 1971."})

	third, _ := svc.LookupOrTranslate(ctx, "7", "es")
	if third.WasCached || third.TranslatedText != "Fundado en 1971." {
		t.Errorf("third = %+v", third)
	}

	if p.CallCount() != 2 {
		t.Errorf("Provider should be called twice, was called %d times", p.CallCount())
	}

	rec, _ := records.Get(ctx, teamtl.CacheKey{EntityID: "7", TargetLang: "es"})
	if !rec.ValidFor("Founded in 1971.") {
		t.Errorf("stored record = %+v", rec)
	}
}

func TestIntegration_SeededMemoryAndLRU(t *testing.T) {
	ctx := context.Background()

	teams := store.NewMemoryStore()
	if _, _, err := store.SeedInto(ctx, teams); err != nil {
		t.Fatalf("SeedInto failed: %v", err)
	}

	records, err := cache.NewLRUStore(16)
	if err != nil {
		t.Fatalf("NewLRUStore failed: %v", err)
	}

	p := provider.NewMockProvider()
	svc := teamtl.NewService(teams, records, p, teamtl.WithSingleFlight())

	results := svc.LookupMany(ctx, "1", []string{"es", "fr", "ga"})
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: %v", r.TargetLang, r.Err)
		}
	}
	if p.CallCount() != 3 {
		t.Errorf("Expected 3 provider calls, got %d", p.CallCount())
	}

	_, err = svc.LookupOrTranslate(ctx, "missing-id", "es")
	if teamtl.KindOf(err) != teamtl.KindNotFound {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestIntegration_WrappedProvider(t *testing.T) {
	ctx := context.Background()

	p := provider.NewMockProvider()
	p.Err = &teamtl.ProviderError{Message: "overloaded", Retryable: true}

	wrapped := teamtl.NewRateLimitedProvider(
		teamtl.NewRetryableProvider(p, teamtl.RetryConfig{MaxRetries: 2, BaseDelay: 1, MaxDelay: 1}),
		teamtl.RateLimitConfig{RequestsPerMinute: 6000},
	)

	teams := store.NewMemoryStore(teamtl.Team{ID: 7, History: "Founded in 1970."})
	records := cache.NewMemoryStore()
	svc := teamtl.NewService(teams, records, wrapped)

	_, err := svc.LookupOrTranslate(ctx, "7", "es")

	var provErr *teamtl.ProviderError
	if !errors.As(err, &provErr) || provErr.Message != "overloaded" {
		t.Errorf("Expected the provider's error after retries, got %v", err)
	}
	if p.CallCount() != 3 {
		t.Errorf("Expected 3 attempts, got %d", p.CallCount())
	}
	if records.Len() != 0 {
		t.Error("nothing should be cached after a provider failure")
	}

	p.Err = nil
	res, err := svc.LookupOrTranslate(ctx, "7", "es")
	if err != nil || res.TranslatedText != "Fundado en 1970." {
		t.Errorf("lookup after recovery = %+v, %v", res, err)
	}
}

func TestIntegration_ExportImportKeepsValidity(t *testing.T) {
	ctx := context.Background()

	teams := store.NewMemoryStore(teamtl.Team{ID: 7, History: "Founded in 1970."})
	src := cache.NewMemoryStore()
	p := provider.NewMockProvider()

	if _, err := teamtl.NewService(teams, src, p).LookupOrTranslate(ctx, "7", "es"); err != nil {
		t.Fatalf("LookupOrTranslate failed: %v", err)
	}

	exporter, err := cache.NewExporter(src)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := exporter.Export(ctx, &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := cache.NewMemoryStore()
	if _, err := cache.NewImporter(dst).Import(ctx, &buf); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	p.Reset()
	svc := teamtl.NewService(teams, dst, p)

	res, _ := svc.LookupOrTranslate(ctx, "7", "es")
	if !res.WasCached {
		t.Error("imported record should be served while the history matches")
	}

	teams.SetHistory(7, "Founded in 1971.")
	res, _ = svc.LookupOrTranslate(ctx, "7", "es")
	if res.WasCached || res.TranslatedText != "Fundado en 1971." {
		t.Errorf("imported record must not outlive a history change: %+v", res)
	}
	if p.CallCount() != 1 {
		t.Errorf("Expected 1 provider call, got %d", p.CallCount())
	}
}
