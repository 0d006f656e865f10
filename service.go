package teamtl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// EntityStore reads teams. Get returns nil, nil when the team does not exist.
type EntityStore interface {
	Get(ctx context.Context, entityID string) (*Team, error)
}

// RecordStore persists cached translations. Get returns nil, nil when no record
// exists for the key. Put replaces any existing record for the same key.
type RecordStore interface {
	Get(ctx context.Context, key CacheKey) (*CacheRecord, error)
	Put(ctx context.Context, rec *CacheRecord) error
}

// Provider is the interface for translation backends.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
	Context    string // Optional hint for context-aware providers
}

// Metrics receives lookup outcomes. Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveLookup(targetLang string, outcome Outcome)
	ObserveProvider(targetLang string, elapsed time.Duration, err error)
}

// Outcome labels how a lookup was resolved.
type Outcome string

const (
	OutcomeHit          Outcome = "hit"
	OutcomeMiss         Outcome = "miss"
	OutcomeStale        Outcome = "stale"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeNoContent    Outcome = "no_content"
	OutcomeError        Outcome = "error"
	OutcomeWriteFailure Outcome = "write_failed"
)

// Service resolves translations of team histories, reusing cached records
// while they still match the team's current history.
type Service struct {
	entities     EntityStore
	records      RecordStore
	provider     Provider
	sourceLang   string
	context      string
	clock        func() time.Time
	logger       *slog.Logger
	metrics      Metrics
	flights      *flightGroup
	strictWrites bool
	fanout       int
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithSourceLang sets the language team histories are written in.
func WithSourceLang(lang string) ServiceOption {
	return func(s *Service) {
		s.sourceLang = lang
	}
}

// WithContext sets a hint passed to providers with every request.
func WithContext(ctx string) ServiceOption {
	return func(s *Service) {
		s.context = ctx
	}
}

// WithClock overrides the time source used for CacheRecord.ComputedAt.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSingleFlight collapses concurrent refreshes of the same key and source
// text into one provider call.
func WithSingleFlight() ServiceOption {
	return func(s *Service) {
		s.flights = newFlightGroup()
	}
}

// WithStrictCacheWrites makes a failed record write fail the lookup with a
// StorageError instead of returning the freshly computed translation.
func WithStrictCacheWrites() ServiceOption {
	return func(s *Service) {
		s.strictWrites = true
	}
}

// WithFanout limits how many languages LookupMany resolves concurrently.
func WithFanout(n int) ServiceOption {
	return func(s *Service) {
		s.fanout = n
	}
}

// NewService creates a Service reading teams from entities, caching into
// records and translating with provider.
func NewService(entities EntityStore, records RecordStore, provider Provider, opts ...ServiceOption) *Service {
	s := &Service{
		entities:   entities,
		records:    records,
		provider:   provider,
		sourceLang: DefaultSourceLang,
		clock:      time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    nopMetrics{},
		fanout:     4,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LookupOrTranslate returns the translation of the team's current history into
// targetLang. A stored record is served only if its source text equals the
// current history; otherwise the provider is called and the record replaced.
//
// No lock is held between reading and writing the record unless the service
// was built WithSingleFlight: concurrent misses for the same key may each call
// the provider, and the last write wins.
func (s *Service) LookupOrTranslate(ctx context.Context, entityID, targetLang string) (*Result, error) {
	if entityID == "" {
		return nil, &InvalidInputError{Field: "entityId", Message: "required"}
	}
	if targetLang == "" {
		return nil, &InvalidInputError{Field: "language", Message: "required"}
	}

	team, err := s.entities.Get(ctx, entityID)
	if err != nil {
		s.metrics.ObserveLookup(targetLang, OutcomeError)
		return nil, &StorageError{Op: "get team", Message: "reading team " + entityID, Cause: err}
	}
	if team == nil {
		s.metrics.ObserveLookup(targetLang, OutcomeNotFound)
		return nil, &NotFoundError{EntityID: entityID}
	}
	if team.History == "" {
		s.metrics.ObserveLookup(targetLang, OutcomeNoContent)
		return nil, &NoContentError{EntityID: entityID}
	}

	key := CacheKey{EntityID: entityID, TargetLang: targetLang}
	if s.flights == nil {
		return s.resolve(ctx, key, team.History)
	}

	res, err := s.flights.do(ctx, key, team.History, func(ctx context.Context) (*Result, error) {
		return s.resolve(ctx, key, team.History)
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a flight must not share the struct.
	out := *res
	return &out, nil
}

// resolve serves key from the record store or refreshes it from the provider.
func (s *Service) resolve(ctx context.Context, key CacheKey, text string) (*Result, error) {
	rec, err := s.records.Get(ctx, key)
	if err != nil {
		s.metrics.ObserveLookup(key.TargetLang, OutcomeError)
		return nil, &StorageError{Op: "get record", Message: "reading " + key.String(), Cause: err}
	}

	if rec.ValidFor(text) {
		s.metrics.ObserveLookup(key.TargetLang, OutcomeHit)
		s.logger.Debug("translation cache hit", "key", key.String(), "computed_at", rec.ComputedAt)
		return &Result{
			EntityID:       key.EntityID,
			TranslatedText: rec.TranslatedText,
			TargetLang:     key.TargetLang,
			WasCached:      true,
			OriginalText:   text,
		}, nil
	}

	outcome := OutcomeMiss
	if rec != nil {
		outcome = OutcomeStale
	}

	start := time.Now()
	translated, err := s.provider.Translate(ctx, TranslateRequest{
		Text:       text,
		SourceLang: s.sourceLang,
		TargetLang: key.TargetLang,
		Context:    s.context,
	})
	s.metrics.ObserveProvider(key.TargetLang, time.Since(start), err)
	if err != nil {
		s.metrics.ObserveLookup(key.TargetLang, OutcomeError)
		s.logger.Warn("translation provider failed", "key", key.String(), "error", err)
		return nil, asProviderError(err)
	}

	s.logger.Info("translation refreshed", "key", key.String(), "reason", string(outcome))

	res := &Result{
		EntityID:       key.EntityID,
		TranslatedText: translated,
		TargetLang:     key.TargetLang,
		OriginalText:   text,
	}

	err = s.records.Put(ctx, &CacheRecord{
		EntityID:       key.EntityID,
		TargetLang:     key.TargetLang,
		SourceText:     text,
		TranslatedText: translated,
		ComputedAt:     s.clock(),
	})
	if err != nil {
		storeErr := &StorageError{Op: "put record", Message: "writing " + key.String(), Cause: err}
		s.metrics.ObserveLookup(key.TargetLang, OutcomeWriteFailure)
		if s.strictWrites {
			return nil, storeErr
		}
		s.logger.Warn("translation computed but not cached", "key", key.String(), "error", err)
		res.CacheWriteErr = storeErr
		return res, nil
	}

	s.metrics.ObserveLookup(key.TargetLang, outcome)
	return res, nil
}

// LangResult is one language's outcome from LookupMany.
type LangResult struct {
	TargetLang string
	Result     *Result
	Err        error
}

// LookupMany resolves several languages for one team concurrently. Results are
// returned in the order of the (deduplicated) input; one language failing does
// not affect the others.
func (s *Service) LookupMany(ctx context.Context, entityID string, targetLangs []string) []LangResult {
	seen := make(map[string]bool, len(targetLangs))
	var langs []string
	for _, lang := range targetLangs {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}

	results := make([]LangResult, len(langs))

	var g errgroup.Group
	if s.fanout > 0 {
		g.SetLimit(s.fanout)
	}
	for i, lang := range langs {
		i, lang := i, lang
		g.Go(func() error {
			res, err := s.LookupOrTranslate(ctx, entityID, lang)
			results[i] = LangResult{TargetLang: lang, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// SourceLang returns the source language.
func (s *Service) SourceLang() string {
	return s.sourceLang
}

type nopMetrics struct{}

func (nopMetrics) ObserveLookup(string, Outcome)                {}
func (nopMetrics) ObserveProvider(string, time.Duration, error) {}
