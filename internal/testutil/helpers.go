// Package testutil holds fixtures, fake sites and mocks shared by the
// package tests.
package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/ivrit/internal/fetch"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// NewFetchClient returns a page client without request delays
func NewFetchClient(t *testing.T, name string) *fetch.Client {
	t.Helper()

	opts := fetch.DefaultOptions()
	opts.Delay = 0
	opts.RandomDelay = 0
	opts.Timeout = 5 * time.Second
	opts.UserAgent = fetch.DefaultUserAgent

	client, err := fetch.NewClient(name, opts, nil)
	if err != nil {
		t.Fatalf("Failed to create fetch client: %v", err)
	}
	return client
}

// FakeSite serves canned pages keyed by a lookup key extracted from the request
type FakeSite struct {
	Server   *httptest.Server
	Pages    map[string]string // key -> HTML body
	Statuses map[string]int    // key -> status code other than 200

	mu       sync.Mutex
	requests []string
}

// NewDictionarySite starts a fake dictionary search site keyed by the q parameter
func NewDictionarySite(t *testing.T) *FakeSite {
	return newFakeSite(t, func(r *http.Request) string {
		return r.URL.Query().Get("q")
	})
}

// NewContextSite starts a fake translation page site keyed by the last path segment
func NewContextSite(t *testing.T) *FakeSite {
	return newFakeSite(t, func(r *http.Request) string {
		return r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	})
}

func newFakeSite(t *testing.T, key func(*http.Request) string) *FakeSite {
	t.Helper()

	site := &FakeSite{
		Pages:    make(map[string]string),
		Statuses: make(map[string]int),
	}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := key(r)
		site.mu.Lock()
		site.requests = append(site.requests, k)
		site.mu.Unlock()
		if status, ok := site.Statuses[k]; ok {
			w.WriteHeader(status)
			return
		}
		body, ok := site.Pages[k]
		if !ok {
			body = "<html><body></body></html>"
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(site.Server.Close)
	return site
}

// Requests returns the lookup keys requested so far, in order
func (s *FakeSite) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// URL returns the base URL of the fake site
func (s *FakeSite) URL() string {
	return s.Server.URL + "/"
}

// DictionaryPage builds a search result page listing the given transcriptions.
// A stressed syllable is written in brackets, e.g. "шал[о]м".
func DictionaryPage(transcriptions ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"results\">")
	for _, tr := range transcriptions {
		escaped := html.EscapeString(tr)
		escaped = strings.Replace(escaped, "[", "<b>", 1)
		escaped = strings.Replace(escaped, "]", "</b>", 1)
		fmt.Fprintf(&b, "<div class=\"verb-search-result\"><span class=\"transcription\">%s</span></div>", escaped)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

// Translation is a dictionary translation link on a context page
type Translation struct {
	Class string // e.g. "translation ltr dict n"
	Term  string
}

// ContextPage builds a translation page with translation links and example pairs
func ContextPage(translations []Translation, examples [][2]string) string {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"translations-content\">")
	for _, tr := range translations {
		fmt.Fprintf(&b, "<a class=%q lang=\"ru\" href=\"#\"><span class=\"display-term\">%s</span></a>",
			tr.Class, html.EscapeString(tr.Term))
	}
	b.WriteString("</div><section id=\"examples-content\">")
	for _, ex := range examples {
		fmt.Fprintf(&b, "<div class=\"example\"><div class=\"src ltr\"><span class=\"text\" lang=\"he\">%s</span></div>"+
			"<div class=\"trg ltr\"><span class=\"text\" lang=\"ru\">%s</span></div></div>",
			html.EscapeString(ex[0]), html.EscapeString(ex[1]))
	}
	b.WriteString("</section></body></html>")
	return b.String()
}
