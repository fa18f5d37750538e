package internal

import (
	"strings"
)

// CompoundSeparator separates the two forms of a compound word, e.g. "גדול/ה"
const CompoundSeparator = "/"

// SplitCompound splits a compound word "stem/suffix" into its stem and suffix.
// Parts after a second separator are ignored. ok is false for plain words.
func SplitCompound(word string) (stem, suffix string, ok bool) {
	if !strings.Contains(word, CompoundSeparator) {
		return word, "", false
	}
	parts := strings.Split(word, CompoundSeparator)
	return parts[0], parts[1], true
}

// CompoundStem returns the stem of a compound word, or the word itself
func CompoundStem(word string) string {
	stem, _, _ := SplitCompound(word)
	return stem
}
