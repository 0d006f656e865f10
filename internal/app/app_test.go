package app

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/ZaguanLabs/teamtl/cache"
	"github.com/ZaguanLabs/teamtl/config"
	"github.com/ZaguanLabs/teamtl/store"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "teams.db")
	cfg.BadgerDir = filepath.Join(dir, "cache")
	cfg.CacheBackend = backend
	cfg.MockProvider = true
	cfg.MaxRetries = 0
	return cfg
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{config.CacheMemory, config.CacheLRU, config.CacheBadger} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			a, err := New(ctx, testConfig(t, backend), NewLogger(io.Discard, config.Default()))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer a.Close()

			if _, _, err := store.SeedInto(ctx, a.Teams); err != nil {
				t.Fatalf("SeedInto failed: %v", err)
			}

			first, err := a.Service.LookupOrTranslate(ctx, "1", "es")
			if err != nil {
				t.Fatalf("LookupOrTranslate failed: %v", err)
			}
			second, _ := a.Service.LookupOrTranslate(ctx, "1", "es")
			if first.WasCached || !second.WasCached {
				t.Errorf("first.WasCached=%v second.WasCached=%v", first.WasCached, second.WasCached)
			}
			if second.TranslatedText != first.TranslatedText {
				t.Errorf("cached text %q != computed %q", second.TranslatedText, first.TranslatedText)
			}
		})
	}
}

func TestNew_BadgerPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.CacheBadger)
	logger := NewLogger(io.Discard, cfg)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	store.SeedInto(ctx, a.Teams)
	a.Service.LookupOrTranslate(ctx, "2", "fr")
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := New(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b.Close()

	res, err := b.Service.LookupOrTranslate(ctx, "2", "fr")
	if err != nil || !res.WasCached {
		t.Errorf("record should survive a restart: %+v, %v", res, err)
	}
	if _, ok := b.Records.(*cache.BadgerStore); !ok {
		t.Errorf("Records is %T", b.Records)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.CacheRedis)
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	if _, err := New(context.Background(), cfg, NewLogger(io.Discard, cfg)); err == nil {
		t.Error("expected an error for an unreachable redis")
	}
}
