package phonetic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal"
	"codeberg.org/snonux/ivrit/internal/fetch"
	"codeberg.org/snonux/ivrit/internal/lookup"
)

// Dictionary is the site adapter for the dictionary search page
type Dictionary interface {
	URL(word string) string
	Transcriptions(doc *goquery.Document) []string
}

// Fetcher handles fetching transcriptions for Hebrew words
type Fetcher struct {
	client fetch.Getter
	site   Dictionary
	logger *zap.Logger
}

// NewFetcher creates a new transcription fetcher
func NewFetcher(client fetch.Getter, site Dictionary, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		site:   site,
		logger: logger,
	}
}

// TranscribeWord transcribes a word, handling compound "stem/suffix" words
// as the pair stem and stem+suffix.
func (f *Fetcher) TranscribeWord(ctx context.Context, word string) lookup.Result {
	stem, suffix, compound := internal.SplitCompound(word)
	if !compound {
		return f.Transcribe(ctx, word)
	}

	first := f.Transcribe(ctx, stem)
	second := f.Transcribe(ctx, stem+suffix)
	return lookup.Join(" / ", first, second)
}

// Transcribe transcribes a phrase word by word. Words whose page cannot be
// fetched are skipped and reported in the result's Err; a word without any
// transcription makes the whole phrase not found.
func (f *Fetcher) Transcribe(ctx context.Context, phrase string) lookup.Result {
	var parts []string
	var skipped []error

	for _, word := range strings.Fields(phrase) {
		transcription, err := f.transcribeSingle(ctx, word)
		if err != nil {
			f.logger.Warn("Skipping word without dictionary page",
				zap.String("word", word),
				zap.Error(err))
			skipped = append(skipped, fmt.Errorf("%s: %w", word, err))
			continue
		}
		if transcription == "" {
			f.logger.Debug("No transcription found", zap.String("word", word))
			return lookup.NotFound()
		}
		parts = append(parts, transcription)
	}

	if len(parts) == 0 {
		if len(skipped) > 0 {
			return lookup.Failed(errors.Join(skipped...))
		}
		return lookup.NotFound()
	}

	result := lookup.Found(strings.TrimSpace(strings.Join(parts, " ")))
	if len(skipped) > 0 {
		result = result.WithErr(errors.Join(skipped...))
	}
	return result
}

// transcribeSingle returns the first transcription on the search page for
// word, or an empty string when the page lists none
func (f *Fetcher) transcribeSingle(ctx context.Context, word string) (string, error) {
	page, err := f.client.Get(ctx, f.site.URL(word))
	if err != nil {
		return "", err
	}

	doc, err := page.Document()
	if err != nil {
		return "", err
	}

	transcriptions := f.site.Transcriptions(doc)
	if len(transcriptions) == 0 {
		return "", nil
	}
	return transcriptions[0], nil
}
