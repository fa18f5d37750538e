package examples

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal"
	"codeberg.org/snonux/ivrit/internal/fetch"
	"codeberg.org/snonux/ivrit/internal/lookup"
	"codeberg.org/snonux/ivrit/internal/reverso"
)

// DefaultMinLength is the minimum length in characters of each side of a pair
const DefaultMinLength = 10

// PairSeparator separates two rendered example pairs
const PairSeparator = "\n\n"

// Corpus is the site adapter that lists example sentence pairs
type Corpus interface {
	URL(word string) string
	Examples(doc *goquery.Document) []reverso.Pair
}

// Options configures a Fetcher
type Options struct {
	MinLength  int    // Minimum runes on each side, DefaultMinLength when zero
	SourceLang string // ISO 639-1 code expected for the source sentence
	TargetLang string // ISO 639-1 code expected for the translation
}

// Fetcher scrapes and filters usage examples
type Fetcher struct {
	client   fetch.Getter
	site     Corpus
	detector Detector
	opts     Options
	logger   *zap.Logger
}

// NewFetcher creates a new example fetcher
func NewFetcher(client fetch.Getter, site Corpus, detector Detector, opts Options, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.SourceLang == "" {
		opts.SourceLang = "he"
	}
	if opts.TargetLang == "" {
		opts.TargetLang = "ru"
	}
	return &Fetcher{
		client:   client,
		site:     site,
		detector: detector,
		opts:     opts,
		logger:   logger,
	}
}

// Examples returns the kept example pairs for word in page order.
// Only the stem of a compound word is looked up.
func (f *Fetcher) Examples(ctx context.Context, word string) lookup.Result {
	stem := internal.CompoundStem(word)

	page, err := f.client.Get(ctx, f.site.URL(stem))
	if err != nil {
		f.logger.Warn("Examples page unavailable",
			zap.String("word", stem),
			zap.Error(err))
		return lookup.Failed(err)
	}

	doc, err := page.Document()
	if err != nil {
		return lookup.Failed(err)
	}

	var kept []string
	for _, pair := range f.site.Examples(doc) {
		if rendered, ok := f.keep(pair); ok {
			kept = append(kept, rendered)
		}
	}

	if len(kept) == 0 {
		return lookup.NotFound()
	}
	return lookup.Found(strings.Join(kept, PairSeparator))
}

// keep trims the pair and checks its length and languages
func (f *Fetcher) keep(pair reverso.Pair) (string, bool) {
	source := strings.TrimSpace(pair.Source)
	target := strings.TrimSpace(pair.Target)

	if utf8.RuneCountInString(source) < f.opts.MinLength ||
		utf8.RuneCountInString(target) < f.opts.MinLength {
		return "", false
	}

	sourceLang, err := f.detector.Detect(source)
	if err != nil {
		f.logger.Debug("Skipping example", zap.String("text", source), zap.Error(err))
		return "", false
	}
	targetLang, err := f.detector.Detect(target)
	if err != nil {
		f.logger.Debug("Skipping example", zap.String("text", target), zap.Error(err))
		return "", false
	}

	if sourceLang != f.opts.SourceLang || targetLang != f.opts.TargetLang {
		f.logger.Debug("Skipping example in other language",
			zap.String("source_lang", sourceLang),
			zap.String("target_lang", targetLang))
		return "", false
	}

	return source + "\n" + target, true
}
