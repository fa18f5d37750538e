package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal/batch"
	"codeberg.org/snonux/ivrit/internal/cli"
	"codeberg.org/snonux/ivrit/internal/examples"
	"codeberg.org/snonux/ivrit/internal/export"
	"codeberg.org/snonux/ivrit/internal/fetch"
	"codeberg.org/snonux/ivrit/internal/lookup"
	"codeberg.org/snonux/ivrit/internal/pealim"
	"codeberg.org/snonux/ivrit/internal/phonetic"
	"codeberg.org/snonux/ivrit/internal/record"
	"codeberg.org/snonux/ivrit/internal/reverso"
	"codeberg.org/snonux/ivrit/internal/translation"
)

// Translator produces the translation of a word
type Translator interface {
	Translate(ctx context.Context, word string) lookup.Result
}

// Transcriber produces the transcription of a word
type Transcriber interface {
	TranscribeWord(ctx context.Context, word string) lookup.Result
}

// ExampleSource produces usage examples of a word
type ExampleSource interface {
	Examples(ctx context.Context, word string) lookup.Result
}

// Processor handles the main word processing logic
type Processor struct {
	settings    *cli.Settings
	translator  Translator
	transcriber Transcriber
	examples    ExampleSource
	logger      *zap.Logger
	out         io.Writer
}

// NewProcessor creates a word processor talking to the configured sites
func NewProcessor(settings *cli.Settings, logger *zap.Logger) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := settings.FetchOptions()

	dictionaryClient, err := fetch.NewClient("pealim", opts, logger)
	if err != nil {
		return nil, err
	}
	contextClient, err := fetch.NewClient("reverso", opts, logger)
	if err != nil {
		return nil, err
	}

	external, err := newExternalTranslator(settings, opts, logger)
	if err != nil {
		return nil, err
	}

	contextSite := reverso.New(settings.Sites.ContextURL)
	contextSite.SourceLang = settings.Examples.SourceLang
	contextSite.TargetLang = settings.Examples.TargetLang

	translator := translation.NewFallback(
		translation.NewFetcher(contextClient, contextSite, logger),
		external,
		settings.Translate.Source,
		settings.Translate.Target,
		logger,
	)
	transcriber := phonetic.NewFetcher(dictionaryClient, pealim.New(settings.Sites.DictionaryURL), logger)
	exampleFetcher := examples.NewFetcher(contextClient, contextSite, examples.NewLinguaDetector(), examples.Options{
		MinLength:  settings.Examples.MinLength,
		SourceLang: settings.Examples.SourceLang,
		TargetLang: settings.Examples.TargetLang,
	}, logger)

	return New(settings, translator, transcriber, exampleFetcher, logger), nil
}

// newExternalTranslator returns the fallback translation API, or nil when
// the fallback is disabled
func newExternalTranslator(settings *cli.Settings, opts fetch.Options, logger *zap.Logger) (translation.Translator, error) {
	switch settings.Translate.Provider {
	case cli.ProviderNone:
		return nil, nil
	case cli.ProviderOpenAI:
		apiKey := settings.OpenAIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure translate.openai_key in .ivrit.yaml")
		}
		return translation.NewOpenAITranslator(apiKey, settings.Translate.OpenAIModel), nil
	default:
		client, err := fetch.NewClient("google", opts, logger)
		if err != nil {
			return nil, err
		}
		return translation.NewGoogleTranslator(client, ""), nil
	}
}

// New creates a processor from explicit lookup sources
func New(settings *cli.Settings, translator Translator, transcriber Transcriber, examples ExampleSource, logger *zap.Logger) *Processor {
	if settings == nil {
		settings = cli.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		settings:    settings,
		translator:  translator,
		transcriber: transcriber,
		examples:    examples,
		logger:      logger,
		out:         os.Stdout,
	}
}

// SetOutput redirects the human readable progress output
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// ProcessWord builds the record of one word. Each field is looked up
// independently, so a failure in one never blocks the others.
func (p *Processor) ProcessWord(ctx context.Context, word string) record.Record {
	rec := record.Record{
		Word:          word,
		Translation:   p.translator.Translate(ctx, word),
		Transcription: p.transcriber.TranscribeWord(ctx, word),
		Examples:      p.examples.Examples(ctx, word),
	}

	if notes := rec.Diagnostics(); len(notes) > 0 {
		p.logger.Warn("Incomplete record",
			zap.String("word", word),
			zap.Strings("notes", notes))
	}
	return rec
}

// ProcessWords builds one record per non-blank word, in input order
func (p *Processor) ProcessWords(ctx context.Context, words []string) []record.Record {
	words = CleanWords(words)
	total := len(words)

	process := func(i int, word string) record.Record {
		p.logger.Info("Processing word",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.String("word", word))
		return p.ProcessWord(ctx, word)
	}

	if p.settings.Workers <= 1 {
		records := make([]record.Record, 0, total)
		for i, word := range words {
			records = append(records, process(i, word))
		}
		return records
	}

	indexes := make([]int, total)
	for i := range indexes {
		indexes[i] = i
	}
	mapper := iter.Mapper[int, record.Record]{MaxGoroutines: p.settings.Workers}
	return mapper.Map(indexes, func(i *int) record.Record {
		return process(*i, words[*i])
	})
}

// CleanWords trims the words and drops blank ones
func CleanWords(words []string) []string {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	return cleaned
}

// ProcessBatch enriches every word of a batch file and exports the table.
// It returns a description of where the table was written.
func (p *Processor) ProcessBatch(ctx context.Context, batchFile string) (string, error) {
	words, err := batch.ReadWords(batchFile)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", fmt.Errorf("no words found in %s", batchFile)
	}

	records := p.ProcessWords(ctx, words)

	destination, err := p.Export(ctx, records)
	if err != nil {
		return "", err
	}

	p.printSummary(records)
	return destination, nil
}

// ProcessSingleWord enriches one word and prints the result
func (p *Processor) ProcessSingleWord(ctx context.Context, word string) (record.Record, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return record.Record{}, fmt.Errorf("word cannot be empty")
	}

	fmt.Fprintf(p.out, "\nProcessing: %s\n", word)
	rec := p.ProcessWord(ctx, word)

	fmt.Fprintf(p.out, "  Translation: %s\n", display(rec.Translation))
	fmt.Fprintf(p.out, "  Transcription: %s\n", display(rec.Transcription))
	fmt.Fprintf(p.out, "  Examples:\n")
	if rec.Examples.IsFound() {
		for _, line := range strings.Split(rec.Examples.Value, "\n") {
			fmt.Fprintf(p.out, "    %s\n", line)
		}
	} else {
		fmt.Fprintf(p.out, "    (%s)\n", rec.Examples.Describe())
	}
	return rec, nil
}

func display(r lookup.Result) string {
	if r.IsFound() {
		return r.Value
	}
	return "(" + r.Describe() + ")"
}

// Export writes the records with the configured exporter
func (p *Processor) Export(ctx context.Context, records []record.Record) (string, error) {
	out := p.settings.Output

	if out.Format == export.FormatSheets {
		writer, err := export.NewSheetsWriter(ctx, p.settings.Sheets.Spreadsheet, p.settings.Sheets.Credentials, out.Diagnostics, p.logger)
		if err != nil {
			return "", err
		}
		if err := writer.Export(ctx, records); err != nil {
			return "", err
		}
		return "Google Sheets " + p.settings.Sheets.Spreadsheet, nil
	}

	gen := export.NewGenerator(&export.Options{
		OutputPath:     out.File,
		Format:         out.Format,
		IncludeHeaders: true,
		Diagnostics:    out.Diagnostics,
	})
	if err := gen.Export(ctx, records); err != nil {
		return "", fmt.Errorf("failed to export records: %w", err)
	}
	return out.File, nil
}

func (p *Processor) printSummary(records []record.Record) {
	complete, withNotes := record.Stats(records)

	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", len(records))
	fmt.Fprintf(p.out, "Complete: %d\n", complete)
	if withNotes > 0 {
		fmt.Fprintf(p.out, "With missing fields: %d\n", withNotes)
	}
	fmt.Fprintf(p.out, "================================\n")
}
