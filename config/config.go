// Package config loads process configuration for the teamtl binaries from
// environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends accepted in Config.CacheBackend.
const (
	CacheMemory = "memory"
	CacheLRU    = "lru"
	CacheBadger = "badger"
	CacheRedis  = "redis"
)

// Config holds everything needed to assemble a translation service.
type Config struct {
	Addr       string // TEAMTL_ADDR
	SourceLang string // TEAMTL_SOURCE_LANG
	DBPath     string // TEAMTL_DB_PATH

	CacheBackend   string // TEAMTL_CACHE
	CacheSize      int    // TEAMTL_CACHE_SIZE, entries kept by the lru backend
	BadgerDir      string // TEAMTL_BADGER_DIR
	RedisURL       string // TEAMTL_REDIS_URL
	RedisRetention int    // TEAMTL_REDIS_RETENTION, seconds

	OpenAIKey         string        // OPENAI_API_KEY
	OpenAIBaseURL     string        // TEAMTL_OPENAI_BASE_URL
	Model             string        // TEAMTL_MODEL
	Temperature       float32       // TEAMTL_TEMPERATURE
	MockProvider      bool          // TEAMTL_MOCK_PROVIDER
	RequestsPerMinute int           // TEAMTL_RPM
	MaxRetries        int           // TEAMTL_MAX_RETRIES
	ProviderTimeout   time.Duration // TEAMTL_PROVIDER_TIMEOUT

	SingleFlight      bool   // TEAMTL_SINGLE_FLIGHT
	StrictCacheWrites bool   // TEAMTL_STRICT_CACHE_WRITES
	LogLevel          string // TEAMTL_LOG_LEVEL
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Addr:              ":8080",
		SourceLang:        "en",
		DBPath:            "teamtl.db",
		CacheBackend:      CacheBadger,
		CacheSize:         4096,
		BadgerDir:         "teamtl-cache",
		Model:             "gpt-4o-mini",
		Temperature:       0.2,
		RequestsPerMinute: 60,
		MaxRetries:        3,
		ProviderTimeout:   30 * time.Second,
		LogLevel:          "info",
	}
}

// Load reads the environment on top of Default. It only fails for malformed
// values; call Validate once any overrides have been applied.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	env := envReader{lookup: lookup}

	env.str("TEAMTL_ADDR", &cfg.Addr)
	env.str("TEAMTL_SOURCE_LANG", &cfg.SourceLang)
	env.str("TEAMTL_DB_PATH", &cfg.DBPath)
	env.str("TEAMTL_CACHE", &cfg.CacheBackend)
	env.int("TEAMTL_CACHE_SIZE", &cfg.CacheSize)
	env.str("TEAMTL_BADGER_DIR", &cfg.BadgerDir)
	env.str("TEAMTL_REDIS_URL", &cfg.RedisURL)
	env.int("TEAMTL_REDIS_RETENTION", &cfg.RedisRetention)
	env.str("OPENAI_API_KEY", &cfg.OpenAIKey)
	env.str("TEAMTL_OPENAI_BASE_URL", &cfg.OpenAIBaseURL)
	env.str("TEAMTL_MODEL", &cfg.Model)
	env.float32("TEAMTL_TEMPERATURE", &cfg.Temperature)
	env.bool("TEAMTL_MOCK_PROVIDER", &cfg.MockProvider)
	env.int("TEAMTL_RPM", &cfg.RequestsPerMinute)
	env.int("TEAMTL_MAX_RETRIES", &cfg.MaxRetries)
	env.duration("TEAMTL_PROVIDER_TIMEOUT", &cfg.ProviderTimeout)
	env.bool("TEAMTL_SINGLE_FLIGHT", &cfg.SingleFlight)
	env.bool("TEAMTL_STRICT_CACHE_WRITES", &cfg.StrictCacheWrites)
	env.str("TEAMTL_LOG_LEVEL", &cfg.LogLevel)

	return cfg, env.err
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.SourceLang == "" {
		return &Error{Field: "SourceLang", Message: "must not be empty"}
	}
	if c.DBPath == "" {
		return &Error{Field: "DBPath", Message: "must not be empty"}
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheLRU:
		if c.CacheSize <= 0 {
			return &Error{Field: "CacheSize", Message: "must be greater than 0"}
		}
	case CacheBadger:
		if c.BadgerDir == "" {
			return &Error{Field: "BadgerDir", Message: "required for the badger cache"}
		}
	case CacheRedis:
		if c.RedisURL == "" {
			return &Error{Field: "RedisURL", Message: "required for the redis cache"}
		}
		if c.RedisRetention < 0 {
			return &Error{Field: "RedisRetention", Message: "must be non-negative"}
		}
	default:
		return &Error{Field: "CacheBackend", Message: "must be one of memory, lru, badger, redis"}
	}

	if !c.MockProvider && c.OpenAIKey == "" {
		return &Error{Field: "OpenAIKey", Message: "OPENAI_API_KEY is required unless the mock provider is enabled"}
	}
	if c.RequestsPerMinute <= 0 {
		return &Error{Field: "RequestsPerMinute", Message: "must be greater than 0"}
	}
	if c.MaxRetries < 0 {
		return &Error{Field: "MaxRetries", Message: "must be non-negative"}
	}
	if c.ProviderTimeout <= 0 {
		return &Error{Field: "ProviderTimeout", Message: "must be greater than 0"}
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return &Error{Field: "LogLevel", Message: "must be one of debug, info, warn, error"}
	}

	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Error represents a configuration validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// envReader records the first malformed variable and ignores the rest.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(name string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *envReader) fail(name, want string) {
	r.err = &Error{Field: name, Message: "must be " + want}
}

func (r *envReader) str(name string, dst *string) {
	if v, ok := r.get(name); ok {
		*dst = v
	}
}

func (r *envReader) int(name string, dst *int) {
	if v, ok := r.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(name, "an integer")
			return
		}
		*dst = n
	}
}

func (r *envReader) float32(name string, dst *float32) {
	if v, ok := r.get(name); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			r.fail(name, "a number")
			return
		}
		*dst = float32(f)
	}
}

func (r *envReader) bool(name string, dst *bool) {
	if v, ok := r.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(name, "a boolean")
			return
		}
		*dst = b
	}
}

func (r *envReader) duration(name string, dst *time.Duration) {
	if v, ok := r.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(name, "a duration")
			return
		}
		*dst = d
	}
}
