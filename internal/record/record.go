// Package record defines the enriched row produced for every input word.
package record

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/ivrit/internal/lookup"
)

// Column headers of the output table
const (
	HeaderWord          = "Иврит"
	HeaderTranslation   = "Перевод"
	HeaderTranscription = "Транскрипция"
	HeaderExamples      = "Примеры"
	HeaderNotes         = "Примечания"
)

// Record is one row of the output table
type Record struct {
	Word          string        // The Hebrew word as read from the input
	Translation   lookup.Result // Russian translation
	Transcription lookup.Result // Phonetic transcription
	Examples      lookup.Result // Example sentence pairs
}

// Headers returns the column headers, with the notes column when diagnostics is set
func Headers(diagnostics bool) []string {
	headers := []string{HeaderWord, HeaderTranslation, HeaderTranscription, HeaderExamples}
	if diagnostics {
		headers = append(headers, HeaderNotes)
	}
	return headers
}

// Row renders the record as table cells. Fields that were not found are empty.
func (r Record) Row(diagnostics bool) []string {
	row := []string{
		r.Word,
		r.Translation.Text(),
		r.Transcription.Text(),
		r.Examples.Text(),
	}
	if diagnostics {
		row = append(row, strings.Join(r.Diagnostics(), "; "))
	}
	return row
}

// Diagnostics lists every field that is not fully found together with the reason
func (r Record) Diagnostics() []string {
	fields := []struct {
		name   string
		result lookup.Result
	}{
		{"translation", r.Translation},
		{"transcription", r.Transcription},
		{"examples", r.Examples},
	}

	var notes []string
	for _, f := range fields {
		if d := f.result.Describe(); d != "" {
			notes = append(notes, fmt.Sprintf("%s: %s", f.name, d))
		}
	}
	return notes
}

// Complete reports whether every field was found
func (r Record) Complete() bool {
	return r.Translation.IsFound() && r.Transcription.IsFound() && r.Examples.IsFound()
}

// Stats counts complete records and records with diagnostics
func Stats(records []Record) (complete, withNotes int) {
	for _, r := range records {
		if r.Complete() {
			complete++
		}
		if len(r.Diagnostics()) > 0 {
			withNotes++
		}
	}
	return complete, withNotes
}
