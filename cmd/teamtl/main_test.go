package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv points every store at a temp dir and enables the mock provider.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TEAMTL_DB_PATH", filepath.Join(dir, "teams.db"))
	t.Setenv("TEAMTL_CACHE", "badger")
	t.Setenv("TEAMTL_BADGER_DIR", filepath.Join(dir, "cache"))
	t.Setenv("TEAMTL_MOCK_PROVIDER", "true")
	t.Setenv("TEAMTL_MAX_RETRIES", "0")
	return dir
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "teamtl") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_NoCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); err == nil {
		t.Fatal("expected error without a command")
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("expected usage on stderr, got: %s", stderr.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"frobnicate"}, &stdout, &stderr)

	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got: %v", err)
	}
}

func TestRun_TranslateMissingLang(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "7"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing --lang")
	}

	if !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_TranslateMissingAPIKey(t *testing.T) {
	testEnv(t)
	t.Setenv("TEAMTL_MOCK_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--quiet", "--lang", "es", "1"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing API key")
	}

	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestRun_SeedAndTranslate(t *testing.T) {
	testEnv(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"seed"}, &stdout, &stderr); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Seeded 10 teams and 6 players") {
		t.Errorf("unexpected seed output: %s", stdout.String())
	}

	stdout.Reset()
	if err := run([]string{"translate", "--quiet", "--lang", "es", "1"}, &stdout, &stderr); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "[es, translated]") {
		t.Errorf("first run should translate, got: %s", stdout.String())
	}

	// The badger cache outlives the process.
	stdout.Reset()
	if err := run([]string{"translate", "--quiet", "--lang", "es", "1"}, &stdout, &stderr); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "[es, cached]") {
		t.Errorf("second run should hit the cache, got: %s", stdout.String())
	}
}

func TestRun_TranslateJSON(t *testing.T) {
	testEnv(t)

	var stdout, stderr bytes.Buffer
	run([]string{"seed"}, &stdout, &stderr)

	stdout.Reset()
	err := run([]string{"translate", "--quiet", "--json", "--lang", "es,en,fr", "2"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	var result []JSONOutput
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result))
	}
	if result[1].TargetLang != "en" || result[1].Result == nil || !strings.HasPrefix(result[1].Result.TranslatedText, "[en]") {
		t.Errorf("unexpected en entry: %+v", result[1])
	}
	if result[0].Result == nil || !strings.HasPrefix(result[0].Result.TranslatedText, "[es]") {
		t.Errorf("unexpected es entry: %+v", result[0])
	}
}

func TestRun_TranslateUnknownTeam(t *testing.T) {
	testEnv(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--quiet", "--json", "--lang", "es", "missing-id"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error for an unknown team")
	}

	var result []JSONOutput
	json.Unmarshal(stdout.Bytes(), &result)
	if len(result) != 1 || result[0].Kind != "not_found" {
		t.Errorf("unexpected output: %s", stdout.String())
	}
}

func TestRun_CacheExportImport(t *testing.T) {
	dir := testEnv(t)

	var stdout, stderr bytes.Buffer
	run([]string{"seed"}, &stdout, &stderr)
	if err := run([]string{"translate", "--quiet", "--lang", "es,fr", "3"}, &stdout, &stderr); err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	exportFile := filepath.Join(dir, "export.json")
	if err := run([]string{"cache", "export", "--quiet", "-o", exportFile}, &stdout, &stderr); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(exportFile)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), `"entityId": "3"`) {
		t.Errorf("export missing records: %s", data)
	}

	// Import into a fresh cache.
	t.Setenv("TEAMTL_BADGER_DIR", filepath.Join(dir, "cache2"))
	stdout.Reset()
	if err := run([]string{"cache", "import", "--quiet", exportFile}, &stdout, &stderr); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Imported 2 records") {
		t.Errorf("unexpected import output: %s", stdout.String())
	}

	stdout.Reset()
	run([]string{"translate", "--quiet", "--lang", "fr", "3"}, &stdout, &stderr)
	if !strings.Contains(stdout.String(), "[fr, cached]") {
		t.Errorf("imported record should be served, got: %s", stdout.String())
	}
}

func TestRun_CacheUnknownSubcommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"cache", "purge"}, &stdout, &stderr); err == nil {
		t.Error("expected error for unknown cache subcommand")
	}
}

func TestRun_CacheGC(t *testing.T) {
	testEnv(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"cache", "gc"}, &stdout, &stderr); err != nil {
		t.Fatalf("cache gc failed: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "GC complete") {
		t.Errorf("unexpected output: %q", stdout.String())
	}

	stdout.Reset()
	if err := run([]string{"cache", "gc", "--cache", "memory"}, &stdout, &stderr); err == nil {
		t.Error("expected error for a backend without a value log")
	}
}
