// internal/search/normalize.go
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents removes combining marks after NFD decomposition, so
// "Toyóta" and "Toyota" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a free-text token for comparison: lower-case,
// diacritics removed, punctuation stripped, internal whitespace collapsed.
// Empty input yields an empty string, never an error.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(strings.TrimSpace(s))

	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
