package examples

import (
	"errors"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrUndetermined is returned when the language of a text cannot be told
var ErrUndetermined = errors.New("language could not be determined")

// Detector reports the ISO 639-1 code of the language a text is written in
type Detector interface {
	Detect(text string) (string, error)
}

// LinguaDetector detects languages with lingua
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over all languages lingua knows
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// NewLinguaDetectorFor builds a detector limited to the given ISO 639-1
// codes. Unknown codes are ignored; fewer than two known codes fall back
// to all languages.
func NewLinguaDetectorFor(codes ...string) *LinguaDetector {
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[strings.ToLower(code)] = true
	}

	var languages []lingua.Language
	for _, lang := range lingua.AllLanguages() {
		if wanted[isoCode(lang)] {
			languages = append(languages, lang)
		}
	}
	if len(languages) < 2 {
		return NewLinguaDetector()
	}

	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the language of text
func (d *LinguaDetector) Detect(text string) (string, error) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrUndetermined
	}
	return isoCode(lang), nil
}

func isoCode(lang lingua.Language) string {
	return strings.ToLower(lang.IsoCode639_1().String())
}
