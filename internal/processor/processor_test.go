package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/ivrit/internal/cli"
	"codeberg.org/snonux/ivrit/internal/examples"
	"codeberg.org/snonux/ivrit/internal/export"
	"codeberg.org/snonux/ivrit/internal/lookup"
	"codeberg.org/snonux/ivrit/internal/pealim"
	"codeberg.org/snonux/ivrit/internal/phonetic"
	"codeberg.org/snonux/ivrit/internal/reverso"
	"codeberg.org/snonux/ivrit/internal/testutil"
	"codeberg.org/snonux/ivrit/internal/translation"
)

func TestNewProcessor(t *testing.T) {
	settings := cli.DefaultSettings()
	settings.Translate.Provider = cli.ProviderNone

	p, err := NewProcessor(settings, nil)
	require.NoError(t, err)

	assert.NotNil(t, p.translator, "Translator not initialized")
	assert.NotNil(t, p.transcriber, "Transcriber not initialized")
	assert.NotNil(t, p.examples, "Example fetcher not initialized")
	assert.Same(t, settings, p.settings)
}

func TestNewExternalTranslator(t *testing.T) {
	settings := cli.DefaultSettings()
	opts := settings.FetchOptions()

	got, err := newExternalTranslator(settings, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, "google", got.Name())

	settings.Translate.Provider = cli.ProviderNone
	got, err = newExternalTranslator(settings, opts, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	settings.Translate.Provider = cli.ProviderOpenAI
	settings.Translate.OpenAIKey = ""
	t.Setenv("OPENAI_API_KEY", "")
	_, err = newExternalTranslator(settings, opts, nil)
	assert.ErrorContains(t, err, "OpenAI API key not found")

	t.Setenv("OPENAI_API_KEY", "test-key")
	got, err = newExternalTranslator(settings, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", got.Name())
}

func TestProcessWord_IndependentFields(t *testing.T) {
	translator := &testutil.MockLookup{Results: map[string]lookup.Result{
		"שלום": lookup.Failed(errors.New("status code 503")),
	}}
	transcriber := &testutil.MockLookup{Results: map[string]lookup.Result{
		"שלום": lookup.Found("шалОм"),
	}}
	exampleSource := &testutil.MockLookup{Results: map[string]lookup.Result{
		"שלום": lookup.Found("שלום לכולם\nПривет всем"),
	}}
	p := New(nil, translator, transcriber, exampleSource, nil)

	rec := p.ProcessWord(context.Background(), "שלום")

	assert.Equal(t, "שלום", rec.Word)
	assert.Equal(t, lookup.StatusFailed, rec.Translation.Status)
	assert.Equal(t, "шалОм", rec.Transcription.Value)
	assert.True(t, rec.Examples.IsFound())
	assert.Equal(t, []string{"שלום"}, transcriber.Calls())
	assert.Equal(t, []string{"שלום"}, exampleSource.Calls())
}

func TestProcessWords_OrderAndBlankLines(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			results := map[string]lookup.Result{
				"א": lookup.Found("1"),
				"ב": lookup.Found("2"),
				"ג": lookup.Found("3"),
				"ד": lookup.Found("4"),
				"ה": lookup.Found("5"),
			}
			settings := cli.DefaultSettings()
			settings.Workers = workers
			p := New(settings,
				&testutil.MockLookup{Results: results},
				&testutil.MockLookup{Results: results},
				&testutil.MockLookup{Results: results},
				nil)

			records := p.ProcessWords(context.Background(), []string{" א ", "", "ב", "   ", "ג", "ד", "ה"})

			require.Len(t, records, 5)
			for i, want := range []string{"א", "ב", "ג", "ד", "ה"} {
				assert.Equal(t, want, records[i].Word)
				assert.Equal(t, results[want].Value, records[i].Translation.Value)
			}
		})
	}
}

func TestProcessWords_CancelledContext(t *testing.T) {
	mock := &testutil.MockLookup{Results: map[string]lookup.Result{"א": lookup.Found("1")}}
	p := New(nil, mock, mock, mock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := p.ProcessWords(ctx, []string{"א", "ב"})

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, lookup.StatusFailed, rec.Translation.Status)
		assert.ErrorIs(t, rec.Translation.Err, context.Canceled)
	}
}

func TestCleanWords(t *testing.T) {
	assert.Equal(t, []string{"שלום", "בוקר טוב"}, CleanWords([]string{"", " שלום\t", "\n", "בוקר טוב"}))
	assert.Empty(t, CleanWords(nil))
}

// pipeline wires real fetchers against fake sites
type pipeline struct {
	proc       *Processor
	dictionary *testutil.FakeSite
	context    *testutil.FakeSite
	api        *testutil.MockTranslator
	out        *bytes.Buffer
}

func newPipeline(t *testing.T, settings *cli.Settings) *pipeline {
	t.Helper()

	dictionary := testutil.NewDictionarySite(t)
	contextSite := testutil.NewContextSite(t)
	site := reverso.New(contextSite.URL())
	api := &testutil.MockTranslator{}

	var external translation.Translator = api
	translator := translation.NewFallback(
		translation.NewFetcher(testutil.NewFetchClient(t, "reverso"), site, nil),
		external, "iw", "ru", nil)
	transcriber := phonetic.NewFetcher(testutil.NewFetchClient(t, "pealim"), pealim.New(dictionary.URL()), nil)
	exampleFetcher := examples.NewFetcher(testutil.NewFetchClient(t, "reverso"), site, &testutil.MockDetector{}, examples.Options{}, nil)

	out := &bytes.Buffer{}
	p := New(settings, translator, transcriber, exampleFetcher, nil)
	p.SetOutput(out)

	return &pipeline{proc: p, dictionary: dictionary, context: contextSite, api: api, out: out}
}

func TestPipeline_Shalom(t *testing.T) {
	pl := newPipeline(t, nil)
	pl.dictionary.Pages["שלום"] = testutil.DictionaryPage("шал[о]м")
	pl.context.Pages["שלום"] = testutil.ContextPage(
		[]testutil.Translation{
			{Class: "translation ltr dict n", Term: "мир"},
			{Class: "translation ltr dict n", Term: "привет"},
			{Class: "translation ltr dict n", Term: "здравствуйте"},
		},
		[][2]string{
			{"שלום, מה שלומך היום?", "Привет, как ты сегодня?"},
			{"שלום", "Привет"},
		})

	rec, err := pl.proc.ProcessSingleWord(context.Background(), " שלום ")
	require.NoError(t, err)

	assert.Equal(t, "мир, привет", rec.Translation.Value)
	assert.Equal(t, "шалОм", rec.Transcription.Value)
	assert.Equal(t, "שלום, מה שלומך היום?\nПривет, как ты сегодня?", rec.Examples.Value)
	assert.Empty(t, pl.api.Calls)
	assert.Contains(t, pl.out.String(), "Translation: мир, привет")
	assert.Contains(t, pl.out.String(), "    Привет, как ты сегодня?")
}

func TestPipeline_CompoundWord(t *testing.T) {
	pl := newPipeline(t, nil)
	pl.dictionary.Pages["גדול"] = testutil.DictionaryPage("гад[о]ль")
	pl.dictionary.Pages["גדולה"] = testutil.DictionaryPage("гдол[а]")
	pl.context.Pages["גדול"] = testutil.ContextPage(
		[]testutil.Translation{{Class: "translation ltr dict adj adj", Term: "большой"}},
		[][2]string{{"הבית הזה גדול מאוד", "Этот дом очень большой"}})

	rec := pl.proc.ProcessWord(context.Background(), "גדול/ה")

	assert.Equal(t, "гадОль / гдолА", rec.Transcription.Value)
	assert.Equal(t, "большой", rec.Translation.Value)
	assert.True(t, rec.Examples.IsFound())
	assert.Equal(t, []string{"גדול", "גדולה"}, pl.dictionary.Requests())
	assert.Equal(t, []string{"גדול", "גדול"}, pl.context.Requests())
}

func TestPipeline_FallbackWhenNoDictionaryEntry(t *testing.T) {
	pl := newPipeline(t, nil)
	pl.api.Translations = map[string]string{"ירושלמי": "иерусалимский"}
	pl.context.Pages["ירושלמי"] = testutil.ContextPage(nil, nil)

	rec := pl.proc.ProcessWord(context.Background(), "ירושלמי")

	require.True(t, rec.Translation.IsFound())
	assert.Equal(t, "иерусалимский", rec.Translation.Value)
	assert.Equal(t, lookup.StatusNotFound, rec.Transcription.Status)
	assert.Equal(t, lookup.StatusNotFound, rec.Examples.Status)
	assert.Equal(t, []string{"Translate: ירושלמי (iw->ru)"}, pl.api.Calls)
}

func TestProcessSingleWord_Empty(t *testing.T) {
	p := New(nil, &testutil.MockLookup{}, &testutil.MockLookup{}, &testutil.MockLookup{}, nil)

	_, err := p.ProcessSingleWord(context.Background(), "   ")
	assert.Error(t, err)
}

func TestProcessBatch_InvalidFile(t *testing.T) {
	p := New(nil, &testutil.MockLookup{}, &testutil.MockLookup{}, &testutil.MockLookup{}, nil)

	_, err := p.ProcessBatch(context.Background(), "/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestProcessBatch_EmptyFile(t *testing.T) {
	batchFile := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, batchFile, []byte("\n  \n"))
	p := New(nil, &testutil.MockLookup{}, &testutil.MockLookup{}, &testutil.MockLookup{}, nil)

	_, err := p.ProcessBatch(context.Background(), batchFile)
	assert.ErrorContains(t, err, "no words found")
}

func TestProcessBatch_WritesWorkbook(t *testing.T) {
	tmpDir := t.TempDir()
	batchFile := filepath.Join(tmpDir, "words.txt")
	testutil.CreateTestFile(t, batchFile, []byte("שלום\nבלבלה\n"))

	settings := cli.DefaultSettings()
	settings.Output.File = filepath.Join(tmpDir, "updated_file.xlsx")
	settings.Output.Diagnostics = true
	settings.Workers = 2

	pl := newPipeline(t, settings)
	pl.dictionary.Pages["שלום"] = testutil.DictionaryPage("шал[о]м")
	pl.context.Pages["שלום"] = testutil.ContextPage(
		[]testutil.Translation{{Class: "translation ltr dict n", Term: "мир"}},
		[][2]string{{"שלום, מה שלומך היום?", "Привет, как ты сегодня?"}})
	pl.api.Errors = map[string]error{"בלבלה": errors.New("quota exceeded")}

	destination, err := pl.proc.ProcessBatch(context.Background(), batchFile)
	require.NoError(t, err)
	assert.Equal(t, settings.Output.File, destination)
	testutil.AssertFileExists(t, destination)

	f, err := excelize.OpenFile(destination)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Примечания", rows[0][4])
	assert.Equal(t, []string{"שלום", "мир", "шалОм", "שלום, מה שלומך היום?\nПривет, как ты сегодня?"}, rows[1][:4])
	assert.Equal(t, "בלבלה", rows[2][0])
	assert.Contains(t, rows[2][4], "translation: failed: mock translation failed: quota exceeded")

	summary := pl.out.String()
	assert.Contains(t, summary, "Total words: 2")
	assert.Contains(t, summary, "Complete: 1")
}

func TestProcessBatch_CSV(t *testing.T) {
	tmpDir := t.TempDir()
	batchFile := filepath.Join(tmpDir, "words.csv")
	testutil.CreateTestFile(t, batchFile, []byte("ספר\n"))

	settings := cli.DefaultSettings()
	settings.Output.File = filepath.Join(tmpDir, "out.csv")

	results := &testutil.MockLookup{Results: map[string]lookup.Result{"ספר": lookup.Found("книга")}}
	p := New(settings, results, results, results, nil)
	p.SetOutput(&bytes.Buffer{})

	_, err := p.ProcessBatch(context.Background(), batchFile)
	require.NoError(t, err)

	content, err := os.ReadFile(settings.Output.File)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(content), "книга"))
	testutil.AssertFileContains(t, settings.Output.File, "Иврит,Перевод,Транскрипция,Примеры")
}
