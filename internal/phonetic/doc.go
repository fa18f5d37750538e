// Package phonetic fetches cyrillic transcriptions of Hebrew words from an
// online conjugation dictionary. Compound words ("stem/suffix") are looked
// up as two forms and joined with " / ".
package phonetic
