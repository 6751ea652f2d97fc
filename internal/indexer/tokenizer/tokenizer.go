// Package tokenizer turns raw text into index terms and query words. It has
// two strengths of normalisation: LineTerm only lower-cases and trims (used for
// whole-line index keys), while Normalize also strips punctuation and
// collapses whitespace (used for queries and phrase verification).
package tokenizer

import (
	"strings"
	"unicode"
)

// IsWordRune reports whether r belongs to a word: a letter, digit or
// underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize lower-cases text, removes every rune that is neither a word rune
// nor whitespace, collapses whitespace runs to a single space and trims the
// ends. It is idempotent.
func Normalize(text string) string {
	// Lower-casing first keeps the result idempotent: some upper-case runes
	// lower into a letter followed by a combining mark, which is then dropped.
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case IsWordRune(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LineTerm is the whole-line index key: lower-cased and trimmed, with
// punctuation and inner spacing kept verbatim.
func LineTerm(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// Words returns the maximal runs of word runes in text, in order.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !IsWordRune(r)
	})
}
