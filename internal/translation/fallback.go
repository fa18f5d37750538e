package translation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal/lookup"
)

// Translator is a generic text translation API
type Translator interface {
	// Translate translates text from the source to the target language
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Name returns the provider name
	Name() string
}

// Source produces a translation lookup for a word
type Source interface {
	Translate(ctx context.Context, word string) lookup.Result
}

// Fallback asks a translation API for words the primary source does not know
type Fallback struct {
	primary  Source
	external Translator
	source   string
	target   string
	logger   *zap.Logger
}

// NewFallback wraps primary. A nil external translator disables the fallback.
func NewFallback(primary Source, external Translator, source, target string, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{
		primary:  primary,
		external: external,
		source:   source,
		target:   target,
		logger:   logger,
	}
}

// Translate returns the primary result unless it is not found, in which
// case the external translation of the whole word is returned.
func (f *Fallback) Translate(ctx context.Context, word string) lookup.Result {
	result := f.primary.Translate(ctx, word)
	if result.Status != lookup.StatusNotFound || f.external == nil {
		return result
	}

	f.logger.Info("Using fallback translation",
		zap.String("word", word),
		zap.String("provider", f.external.Name()))

	text, err := f.external.Translate(ctx, word, f.source, f.target)
	if err != nil {
		return lookup.Failed(fmt.Errorf("%s translation failed: %w", f.external.Name(), err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return lookup.NotFound()
	}
	return lookup.Found(text)
}
