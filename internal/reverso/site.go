// Package reverso knows the markup of the context.reverso.net translation
// page. It extracts dictionary translations and example sentence pairs.
package reverso

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPageURL is the Hebrew to Russian translation page prefix
const DefaultPageURL = "https://context.reverso.net/translation/hebrew-russian/"

// translationClasses are the class attributes of dictionary translation
// links, in priority order: noun, adverb, adjective, no part of speech.
// The class attribute must match exactly.
var translationClasses = []string{
	"translation ltr dict n",
	"translation ltr dict adv",
	"translation ltr dict adj adj",
	"translation ltr dict no-pos",
}

const displayTermSelector = "span.display-term"

// Pair is one example sentence and its translation
type Pair struct {
	Source string
	Target string
}

// Site builds page URLs and extracts content from translation pages
type Site struct {
	PageURL    string
	SourceLang string // lang attribute of source sentences
	TargetLang string // lang attribute of translations
}

// New creates a Site for the Hebrew to Russian page
func New(pageURL string) *Site {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	if !strings.HasSuffix(pageURL, "/") {
		pageURL += "/"
	}
	return &Site{
		PageURL:    pageURL,
		SourceLang: "he",
		TargetLang: "ru",
	}
}

// URL returns the translation page URL for a word
func (s *Site) URL(word string) string {
	return s.PageURL + url.PathEscape(word)
}

// Translations returns the display terms of the first part-of-speech block
// that has any non-empty term, or nil when none of them match. Links without
// a display term are skipped.
func (s *Site) Translations(doc *goquery.Document) []string {
	for _, class := range translationClasses {
		links := doc.Find(fmt.Sprintf(`a[class=%q][lang=%q]`, class, s.TargetLang))
		var terms []string
		links.Each(func(_ int, link *goquery.Selection) {
			if term := strings.TrimSpace(link.Find(displayTermSelector).First().Text()); term != "" {
				terms = append(terms, term)
			}
		})
		if len(terms) > 0 {
			return terms
		}
	}
	return nil
}

// Examples returns example sentences paired by position. Sentences beyond
// the shorter of the two lists are dropped. Text is returned untrimmed.
func (s *Site) Examples(doc *goquery.Document) []Pair {
	sources := doc.Find(fmt.Sprintf(`span.text[lang=%q]`, s.SourceLang))
	targets := doc.Find(fmt.Sprintf(`span.text[lang=%q]`, s.TargetLang))

	n := min(sources.Length(), targets.Length())
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{
			Source: sources.Eq(i).Text(),
			Target: targets.Eq(i).Text(),
		})
	}
	return pairs
}
