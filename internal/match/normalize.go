// Package match implements the loose filename matching used by busqueda.
//
// Both the search term and each candidate filename are reduced to a
// normalized form: lowercase ASCII letters, digits and spaces, with
// punctuation runs collapsed and letter/digit boundaries split. A name
// matches when the normalized term is a substring of the normalized name,
// or when every term token overlaps some name token.
package match

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text into its comparison form.
//
// The steps, in order:
//   - NFC composition, then lowercasing
//   - every run of '_', '-' or '.' becomes a single space
//   - anything that is not a-z, 0-9 or space is dropped
//   - a space is inserted between an adjacent ASCII letter and digit
//   - leading and trailing spaces are trimmed
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(text))

	// prev is the last rune written. Splitting on what survives stripping
	// keeps the function idempotent: "aé1" becomes "a 1", not "a1".
	var prev rune
	inRun := false
	for _, r := range text {
		if isSeparator(r) {
			if !inRun {
				b.WriteByte(' ')
				prev = ' '
			}
			inRun = true
			continue
		}
		inRun = false

		if !isLetter(r) && !isDigit(r) && r != ' ' {
			continue
		}
		if (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	return strings.Trim(b.String(), " ")
}

// Tokens returns the whitespace-separated tokens of the normalized text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.'
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
