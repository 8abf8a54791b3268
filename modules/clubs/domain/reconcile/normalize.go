package reconcile

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RawName is one name string as extracted from a roster document. It carries no structure
// beyond being non-blank.
type RawName string

// NewRawName validates an extracted string at the boundary. Blank strings are rejected.
func NewRawName(s string) (RawName, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return RawName(s), true
}

// RawNames converts extracted strings, dropping blanks.
func RawNames(values []string) []RawName {
	out := make([]RawName, 0, len(values))
	for _, v := range values {
		if name, ok := NewRawName(v); ok {
			out = append(out, name)
		}
	}
	return out
}

func (n RawName) String() string { return string(n) }

// Display returns the name capitalized for a human reviewer.
func (n RawName) Display() string { return Capitalize(string(n)) }

// Normalize lower-cases raw, drops every rune that is not an ASCII lowercase letter or whitespace,
// and splits the remainder on whitespace. Digits, punctuation and accented letters are discarded.
func Normalize(raw string) []string {
	lowered := cases.Lower(language.Und).String(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// NormalizedString is Normalize joined back with single spaces.
func NormalizedString(raw string) string {
	return strings.Join(Normalize(raw), " ")
}

// Capitalize lower-cases raw and upper-cases the first letter of every whitespace-separated word.
// It is a display helper only and makes no attempt at correct name casing.
func Capitalize(raw string) string {
	words := strings.Fields(cases.Lower(language.Und).String(raw))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
