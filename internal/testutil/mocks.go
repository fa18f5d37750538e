package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/ivrit/internal/lookup"
)

// MockTranslator mocks an external translation API
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, source, target))

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the mock provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// MockDetector detects Hebrew and Cyrillic script, or returns canned answers
type MockDetector struct {
	Languages map[string]string
	Errors    map[string]error
}

// Detect returns the language code of text
func (m *MockDetector) Detect(text string) (string, error) {
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if lang, ok := m.Languages[text]; ok {
		return lang, nil
	}
	switch {
	case strings.ContainsAny(text, "אבגדהוזחטיכלמנסעפצקרשת"):
		return "he", nil
	case strings.ContainsAny(text, "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"):
		return "ru", nil
	default:
		return "en", nil
	}
}

// MockLookup returns canned lookup results per word and records calls.
// It can stand in for the translation, transcription and example sources.
type MockLookup struct {
	Results map[string]lookup.Result

	mu    sync.Mutex
	calls []string
}

// Lookup returns the canned result for word, or NotFound
func (m *MockLookup) Lookup(ctx context.Context, word string) lookup.Result {
	m.mu.Lock()
	m.calls = append(m.calls, word)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return lookup.Failed(err)
	}
	if r, ok := m.Results[word]; ok {
		return r
	}
	return lookup.NotFound()
}

// Translate implements the translation source
func (m *MockLookup) Translate(ctx context.Context, word string) lookup.Result {
	return m.Lookup(ctx, word)
}

// TranscribeWord implements the transcription source
func (m *MockLookup) TranscribeWord(ctx context.Context, word string) lookup.Result {
	return m.Lookup(ctx, word)
}

// Examples implements the example source
func (m *MockLookup) Examples(ctx context.Context, word string) lookup.Result {
	return m.Lookup(ctx, word)
}

// Calls returns the looked up words in call order
func (m *MockLookup) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
