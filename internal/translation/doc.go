// Package translation provides Hebrew to Russian translations. Short
// dictionary translations are scraped from a context-translation site; when
// the site has none, a generic translation API (Google Translate or OpenAI)
// is asked instead.
package translation
