// Package examples collects bilingual usage examples for a word from the
// context-translation site.
//
// A sentence pair is kept only when both sides are long enough to be a real
// sentence and language detection confirms the source and target languages.
// Kept pairs are rendered as "source\ntarget" and separated by a blank line.
package examples
