// Package text provides the locale-aware string helpers used when matching
// merchant descriptions against the category dictionary.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinUsefulLength is the minimum number of useful characters a keyword or
// auto-created category needs. Anything shorter is noise ("A B", "***").
const MinUsefulLength = 4

var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips accents, lowercases and trims a string for comparison.
// "Açaí do Zé " becomes "acai do ze".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	stripped, _, err := transform.String(stripAccents, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(strings.ToLower(stripped))
}

// UsefulLength counts the letters and digits in a string. Whitespace,
// punctuation and standalone combining marks do not count.
func UsefulLength(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Title capitalizes the first letter of each word and lowercases the rest,
// producing the human-facing form of an auto-created category label.
func Title(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}
