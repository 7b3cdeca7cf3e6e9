// Package merchant canonicalizes merchant strings and resolves them to a
// display name, category and category color.
package merchant

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases raw, drops every rune that is not a letter, digit or
// space, collapses whitespace runs and trims. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Prettify title-cases single-case merchant captures ("AMAZON" -> "Amazon")
// and leaves mixed-case names as written.
func Prettify(raw string) string {
	raw = strings.TrimSpace(raw)
	hasUpper, hasLower := false, false
	for _, r := range raw {
		if unicode.IsUpper(r) {
			hasUpper = true
		} else if unicode.IsLower(r) {
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		return raw
	}
	return cases.Title(language.Und).String(raw)
}
