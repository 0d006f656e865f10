package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a deterministic provider for tests and dry runs.
type MockProvider struct {
	Translations map[string]string // Keyed by target language, then source text
	Err          error             // Returned from every call when set

	mu       sync.Mutex
	calls    int
	requests []TranslateRequest
}

// NewMockProvider creates a mock provider with a few Spanish translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"es|Founded in 1970.": "Fundado en 1970.",
			"es|Founded in 1971.": "Fundado en 1971.",
			"fr|Founded in 1970.": "Fondé en 1970.",
		},
	}
}

// Translate returns the configured translation, or "[lang] text" for unknown input.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.requests = append(m.requests, req)

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.TargetLang+"|"+req.Text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s] %s", req.TargetLang, req.Text), nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of every request received.
func (m *MockProvider) Requests() []TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranslateRequest(nil), m.requests...)
}

// Reset clears recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = 0
	m.requests = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
