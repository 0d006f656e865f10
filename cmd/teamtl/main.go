// Command teamtl serves and inspects cached translations of football team histories.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/cache"
	"github.com/ZaguanLabs/teamtl/config"
	"github.com/ZaguanLabs/teamtl/httpapi"
	"github.com/ZaguanLabs/teamtl/internal/app"
	"github.com/ZaguanLabs/teamtl/store"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = teamtl.Version
	commit    = teamtl.GitCommit
	buildDate = teamtl.BuildDate
)

const usage = `Usage: teamtl <command> [flags]

Commands:
  translate     Translate a team's history (teamtl translate --lang es 7)
  serve         Run the HTTP API
  seed          Load the sample teams and players into the database
  cache export  Write all cached translations as JSON
  cache import  Load cached translations from a JSON export
  cache gc      Reclaim Badger value-log space
  version       Show version

Configuration is read from TEAMTL_* environment variables and OPENAI_API_KEY;
flags override them.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("command required")
	}

	switch args[0] {
	case "translate":
		return runTranslate(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stdout, stderr)
	case "seed":
		return runSeed(args[1:], stdout, stderr)
	case "cache":
		return runCache(args[1:], stdout, stderr)
	case "version", "--version", "-version":
		printVersion(stdout)
		return nil
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", teamtl.Name, version)
	if commit != "unknown" && commit != "" {
		fmt.Fprintf(w, "  commit:  %s\n", commit)
	}
	if buildDate != "unknown" && buildDate != "" {
		fmt.Fprintf(w, "  built:   %s\n", buildDate)
	}
}

// commonFlags registers the flags shared by every command that opens the
// stores. Unset flags leave the environment's value in place.
type commonFlags struct {
	db      *string
	cache   *string
	badger  *string
	redis   *string
	mock    *bool
	quiet   *bool
	logJSON *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		db:      fs.String("db", "", "SQLite database path (TEAMTL_DB_PATH)"),
		cache:   fs.String("cache", "", "Cache backend: memory, lru, badger, redis (TEAMTL_CACHE)"),
		badger:  fs.String("badger-dir", "", "Badger cache directory (TEAMTL_BADGER_DIR)"),
		redis:   fs.String("redis-url", "", "Redis URL (TEAMTL_REDIS_URL)"),
		mock:    fs.Bool("mock", false, "Use the mock translation provider"),
		quiet:   fs.Bool("quiet", false, "Suppress log output"),
		logJSON: fs.Bool("log-json", false, "Write logs to stderr as JSON"),
	}
}

func (f *commonFlags) config() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if *f.db != "" {
		cfg.DBPath = *f.db
	}
	if *f.cache != "" {
		cfg.CacheBackend = *f.cache
	}
	if *f.badger != "" {
		cfg.BadgerDir = *f.badger
	}
	if *f.redis != "" {
		cfg.RedisURL = *f.redis
	}
	if *f.mock {
		cfg.MockProvider = true
	}
	return cfg, nil
}

func (f *commonFlags) open(ctx context.Context, stderr io.Writer) (*app.App, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}

	logOut := stderr
	if *f.quiet {
		logOut = io.Discard
	}
	logger := app.NewLogger(logOut, cfg)
	if !*f.logJSON {
		logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}

	return app.New(ctx, cfg, logger)
}

func runTranslate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl translate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs)
	langs := fs.String("lang", "", "Target language code(s), comma-separated (e.g., es or es,fr,ga)")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *langs == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("exactly one team ID is required")
	}
	teamID := fs.Arg(0)

	ctx := context.Background()
	a, err := common.open(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	var targets []string
	for _, lang := range strings.Split(*langs, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			targets = append(targets, lang)
		}
	}

	start := time.Now()
	results := a.Service.LookupMany(ctx, teamID, targets)
	elapsed := time.Since(start)

	if *jsonOutput {
		return outputJSON(stdout, results)
	}

	var failed error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", r.TargetLang, r.Err)
			failed = r.Err
			continue
		}
		source := "translated"
		if r.Result.WasCached {
			source = "cached"
		}
		fmt.Fprintf(stdout, "[%s, %s]\n%s\n\n", r.TargetLang, source, r.Result.TranslatedText)
	}

	if !*common.quiet {
		fmt.Fprintf(stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
	}
	return failed
}

// JSONOutput is one language's entry in the translate --json output.
type JSONOutput struct {
	TargetLang string         `json:"targetLanguage"`
	Result     *teamtl.Result `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	Kind       string         `json:"kind,omitempty"`
}

// outputJSON writes the results as JSON. Failed languages are reported in the
// output and in the returned error.
func outputJSON(w io.Writer, results []teamtl.LangResult) error {
	out := make([]JSONOutput, len(results))
	var failed error
	for i, r := range results {
		out[i] = JSONOutput{TargetLang: r.TargetLang, Result: r.Result}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			out[i].Kind = string(teamtl.KindOf(r.Err))
			failed = r.Err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return failed
}

func runServe(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl serve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs)
	addr := fs.String("addr", "", "Listen address (TEAMTL_ADDR)")
	seed := fs.Bool("seed", false, "Load the sample data before serving")
	timeout := fs.Duration("timeout", 30*time.Second, "Per-request timeout")
	grace := fs.Duration("grace", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := common.open(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	if *seed {
		teams, players, err := store.SeedInto(ctx, a.Teams)
		if err != nil {
			return err
		}
		a.Logger.Info("seeded", "teams", teams, "players", players)
	}

	listen := a.Config.Addr
	if *addr != "" {
		listen = *addr
	}

	api := httpapi.NewServer(a.Service, a.Teams,
		httpapi.WithLogger(a.Logger),
		httpapi.WithGatherer(a.Registry),
		httpapi.WithTimeout(*timeout),
	)
	srv := &http.Server{
		Addr:              listen,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "addr", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSeed(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	db := fs.String("db", "", "SQLite database path (TEAMTL_DB_PATH)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *db != "" {
		cfg.DBPath = *db
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer s.Close()

	teams, players, err := store.SeedInto(context.Background(), s)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Seeded %d teams and %d players into %s\n", teams, players, cfg.DBPath)
	return nil
}

func runCache(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("cache: subcommand required (export, import or gc)")
	}

	switch args[0] {
	case "export":
		return runCacheExport(args[1:], stdout, stderr)
	case "import":
		return runCacheImport(args[1:], stdout, stderr)
	case "gc":
		return runCacheGC(args[1:], stdout, stderr)
	default:
		return fmt.Errorf("cache: unknown subcommand %q", args[0])
	}
}

func runCacheExport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl cache export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs)
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := common.open(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	exporter, err := cache.NewExporter(a.Records)
	if err != nil {
		return err
	}

	meta := map[string]string{
		"source_lang": a.Config.SourceLang,
		"backend":     a.Config.CacheBackend,
		"version":     teamtl.FullVersion(),
	}

	var n int
	if *output != "" {
		n, err = exporter.ExportToFile(ctx, *output, meta)
	} else {
		n, err = exporter.Export(ctx, stdout, meta)
	}
	if err != nil {
		return err
	}

	if !*common.quiet {
		fmt.Fprintf(stderr, "Exported %d records\n", n)
	}
	return nil
}

func runCacheImport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl cache import", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("exactly one export file is required")
	}

	ctx := context.Background()
	a, err := common.open(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := cache.NewImporter(a.Records).ImportFromFile(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Imported %d records (skipped %d, failed %d)\n",
		result.Imported, result.Skipped, result.Failed)
	if result.Version != cache.ExportFormatVersion {
		fmt.Fprintf(stderr, "warning: export format %q, expected %q\n", result.Version, cache.ExportFormatVersion)
	}
	return nil
}

func runCacheGC(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("teamtl cache gc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs)
	ratio := fs.Float64("discard-ratio", 0.5, "Rewrite value-log files with at least this fraction of stale data")

	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := common.open(context.Background(), stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	bs, ok := a.Records.(*cache.BadgerStore)
	if !ok {
		return fmt.Errorf("cache gc: backend %q has no value log", a.Config.CacheBackend)
	}
	if err := bs.RunGC(*ratio); err != nil {
		return fmt.Errorf("cache gc: %w", err)
	}

	fmt.Fprintln(stdout, "Value-log GC complete")
	return nil
}
