package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/ivrit/internal/lookup"
)

func TestHeaders(t *testing.T) {
	assert.Equal(t, []string{"Иврит", "Перевод", "Транскрипция", "Примеры"}, Headers(false))
	assert.Equal(t, []string{"Иврит", "Перевод", "Транскрипция", "Примеры", "Примечания"}, Headers(true))
}

func TestRecord_Row(t *testing.T) {
	r := Record{
		Word:          "שלום",
		Translation:   lookup.Found("мир, привет"),
		Transcription: lookup.Found("шалОм"),
		Examples:      lookup.NotFound(),
	}

	assert.Equal(t, []string{"שלום", "мир, привет", "шалОм", ""}, r.Row(false))
	assert.Equal(t, []string{"שלום", "мир, привет", "шалОм", "", "examples: not found"}, r.Row(true))
	assert.False(t, r.Complete())
}

func TestRecord_Diagnostics(t *testing.T) {
	r := Record{
		Word:          "גדול/ה",
		Translation:   lookup.Failed(errors.New("failed to retrieve x: status code 403")),
		Transcription: lookup.Found("гадОль").WithErr(errors.New("skipped")),
		Examples:      lookup.Found("a\nb"),
	}

	assert.Equal(t, []string{
		"translation: failed: failed to retrieve x: status code 403",
		"transcription: partial: skipped",
	}, r.Diagnostics())
}

func TestRecord_Complete(t *testing.T) {
	r := Record{
		Word:          "שלום",
		Translation:   lookup.Found("мир"),
		Transcription: lookup.Found("шалОм"),
		Examples:      lookup.Found("a\nb"),
	}

	assert.True(t, r.Complete())
	assert.Empty(t, r.Diagnostics())
}

func TestStats(t *testing.T) {
	records := []Record{
		{Word: "a", Translation: lookup.Found("x"), Transcription: lookup.Found("y"), Examples: lookup.Found("z")},
		{Word: "b", Translation: lookup.Found("x"), Transcription: lookup.Found("y").WithErr(errors.New("skipped")), Examples: lookup.Found("z")},
		{Word: "c", Translation: lookup.NotFound(), Transcription: lookup.NotFound(), Examples: lookup.NotFound()},
	}

	complete, withNotes := Stats(records)

	assert.Equal(t, 2, complete)
	assert.Equal(t, 2, withNotes)
}
