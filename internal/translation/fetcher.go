package translation

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal"
	"codeberg.org/snonux/ivrit/internal/fetch"
	"codeberg.org/snonux/ivrit/internal/lookup"
)

// MaxTranslations is the number of dictionary translations kept per word
const MaxTranslations = 2

// Dictionary is the site adapter for the context-translation page
type Dictionary interface {
	URL(word string) string
	Translations(doc *goquery.Document) []string
}

// Fetcher scrapes dictionary translations
type Fetcher struct {
	client fetch.Getter
	site   Dictionary
	logger *zap.Logger
}

// NewFetcher creates a new translation fetcher
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

// Translate returns up to MaxTranslations comma separated translations.
// Only the stem of a compound word is looked up.
func (f *Fetcher) Translate(ctx context.Context, word string) lookup.Result {
	stem := internal.CompoundStem(word)

	page, err := f.client.Get(ctx, f.site.URL(stem))
	if err != nil {
		f.logger.Warn("Translation page unavailable",
			zap.String("word", stem),
			zap.Error(err))
		return lookup.Failed(err)
	}

	doc, err := page.Document()
	if err != nil {
		return lookup.Failed(err)
	}

	terms := f.site.Translations(doc)
	if len(terms) == 0 {
		f.logger.Debug("No dictionary translation", zap.String("word", stem))
		return lookup.NotFound()
	}
	if len(terms) > MaxTranslations {
		terms = terms[:MaxTranslations]
	}
	return lookup.Found(strings.Join(terms, ", "))
}
