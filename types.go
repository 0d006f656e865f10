package teamtl

import (
	"strconv"
	"time"
)

// DefaultSourceLang is the language team histories are written in.
const DefaultSourceLang = "en"

// Team is a football team record. History is the field that gets translated.
type Team struct {
	ID        int64  `json:"id"`
	TeamName  string `json:"teamName"`
	Country   string `json:"country"`
	League    string `json:"league"`
	Location  string `json:"location"`
	Founded   int    `json:"founded"`
	Stadium   string `json:"stadium"`
	TitlesWon int    `json:"titlesWon"`
	IsActive  bool   `json:"isActive"`
	History   string `json:"history,omitempty"`
}

// EntityID returns the identifier the translation cache uses for the team.
func (t *Team) EntityID() string {
	return strconv.FormatInt(t.ID, 10)
}

// Player belongs to a team.
type Player struct {
	TeamID      int64  `json:"teamId"`
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	Age         int    `json:"age"`
	IsCaptain   bool   `json:"isCaptain"`
}

// CacheKey identifies at most one CacheRecord. Language codes are compared
// as-is; "es" and "ES" are different keys.
type CacheKey struct {
	EntityID   string
	TargetLang string
}

// String renders the key for keyed backends (e.g., "7:es").
func (k CacheKey) String() string {
	return k.EntityID + ":" + k.TargetLang
}

// CacheRecord is a persisted translation of one team's history.
type CacheRecord struct {
	EntityID       string    `json:"entityId"`
	TargetLang     string    `json:"targetLanguage"`
	SourceText     string    `json:"sourceText"`     // Exact history the translation was computed from
	TranslatedText string    `json:"translatedText"` // Provider output
	ComputedAt     time.Time `json:"computedAt"`
}

// Key returns the record's cache key.
func (r *CacheRecord) Key() CacheKey {
	return CacheKey{EntityID: r.EntityID, TargetLang: r.TargetLang}
}

// ValidFor reports whether the record may be served for the given source text.
func (r *CacheRecord) ValidFor(text string) bool {
	return r != nil && r.SourceText == text
}

// Result is the outcome of a lookup.
type Result struct {
	EntityID       string `json:"entityId"`
	TranslatedText string `json:"translatedText"`
	TargetLang     string `json:"targetLanguage"`
	WasCached      bool   `json:"wasCached"`
	OriginalText   string `json:"originalText,omitempty"`

	// CacheWriteErr is set when the translation was computed but could not be
	// stored. The translated text is still correct.
	CacheWriteErr error `json:"-"`
}
