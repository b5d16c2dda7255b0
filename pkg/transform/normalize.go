package transform

import (
	"regexp"
	"strings"
	"unicode"
)

// ordinalSuffixPattern matches a digit sequence followed by a capitalized
// ordinal suffix, the shape produced by auto-capitalizing keyboards
// ("19Th September").
var ordinalSuffixPattern = regexp.MustCompile(`(\d+)(Th|St|Nd|Rd)\b`)

// NormalizeOrdinalCasing lowercases stray ordinal-suffix capitals in mixed or
// title case text. Fully uppercase text is left untouched: a user who typed
// "19TH SEPTEMBER" meant the capitals.
func NormalizeOrdinalCasing(text string) string {
	if isAllUpper(text) {
		return text
	}
	return ordinalSuffixPattern.ReplaceAllStringFunc(text, func(m string) string {
		return m[:len(m)-2] + strings.ToLower(m[len(m)-2:])
	})
}

// NormalizeInputs applies ordinal-casing normalization to every raw value,
// returning a fresh map.
func NormalizeInputs(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = NormalizeOrdinalCasing(v)
	}
	return out
}

// isAllUpper reports whether text contains at least one letter and no
// lowercase letters. Digits and punctuation are neutral, so "19TH SEPTEMBER,
// 2025" counts as uppercase while "19" alone does not.
func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}
