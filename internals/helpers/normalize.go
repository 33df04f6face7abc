package helper

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormText lowercases, strips accents (á→a, ñ→n, ü→u, ...) and collapses
// whitespace. Header matching and keyword categorization both compare through
// this so "Temática" == "tematica".
func NormText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormStr trims, mapping nil-ish input to the empty string.
func NormStr(s string) string {
	return strings.TrimSpace(s)
}
