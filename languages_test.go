package teamtl

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"es", "Spanish"},
		{"es_ES", "Spanish"},
		{"pt-BR", "Portuguese"},
		{"GA", "Irish"},        // base code is case-folded for the prompt only
		{"xx", "xx"},           // fallback
		{"unknown", "unknown"}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestGetLocaleClarification(t *testing.T) {
	if hint := GetLocaleClarification("es-ES"); hint == "" {
		t.Error("expected a clarification for es-ES")
	}
	if hint := GetLocaleClarification("es"); hint != "" {
		t.Errorf("expected no clarification for bare es, got %q", hint)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"es-ES", "es_ES"},
		{"es_ES", "es_ES"},
		{"fr", "fr"},
	}

	for _, tt := range tests {
		if got := NormalizeLocale(tt.input); got != tt.expected {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeBaseLang(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"en_US", "en"},
		{"EN-gb", "en"},
		{"es_ES", "es"},
	}

	for _, tt := range tests {
		if got := normalizeBaseLang(tt.input); got != tt.expected {
			t.Errorf("normalizeBaseLang(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
