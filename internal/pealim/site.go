// Package pealim knows the markup of the pealim.com dictionary search page.
// All selectors for that site live here.
package pealim

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSearchURL is the Russian-language search endpoint
const DefaultSearchURL = "https://www.pealim.com/ru/search/"

const (
	transcriptionSelector = ".transcription"
	stressSelector        = "b"
)

// excludedForms are auxiliary verb forms that the search page lists next to
// the word itself
var excludedForms = map[string]struct{}{
	"шинита": {},
	"шинисо": {},
}

// Site builds search URLs and extracts transcriptions
type Site struct {
	SearchURL string
}

// New creates a Site for the given search endpoint
func New(searchURL string) *Site {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Site{SearchURL: searchURL}
}

// URL returns the search URL for a single word
func (s *Site) URL(word string) string {
	params := url.Values{}
	params.Set("from-nav", "1")
	params.Set("q", word)
	return s.SearchURL + "?" + params.Encode()
}

// Transcriptions returns the transcriptions listed on a search result page
// in page order, skipping excluded forms. The stressed syllable, marked by
// <b>, is uppercased.
func (s *Site) Transcriptions(doc *goquery.Document) []string {
	var result []string
	doc.Find(transcriptionSelector).Each(func(_ int, sel *goquery.Selection) {
		if _, excluded := excludedForms[strings.TrimSpace(sel.Text())]; excluded {
			return
		}
		stress := sel.Find(stressSelector).First()
		if stress.Length() > 0 {
			stress.SetText(strings.ToUpper(stress.Text()))
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			result = append(result, text)
		}
	})
	return result
}
