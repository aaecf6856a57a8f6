// Package ident builds stable, DOM and log friendly identifiers out of
// arbitrary labels.
package ident

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFallback is used when a label produces no usable characters.
const DefaultFallback = "invalid-option"

// stripMarks returns a fresh transformer; chained transformers keep state and
// cannot be shared between goroutines.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slug converts label into a lower-case identifier made of letters, digits
// and dashes. Diacritics are removed and whitespace runs collapse to a single
// dash. When nothing usable remains the result is "<fallback>-<seed>".
func Slug(label, fallback, seed string) string {
	if fallback == "" {
		fallback = DefaultFallback
	}
	cleaned := clean(label)
	if cleaned != "" {
		return cleaned
	}
	seed = strings.ReplaceAll(seed, ":", "")
	if seed == "" {
		return fallback
	}
	return fallback + "-" + seed
}

func clean(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	stripped, _, err := transform.String(stripMarks(), label)
	if err != nil {
		stripped = label
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingDash := false
	for _, r := range stripped {
		switch {
		case unicode.IsSpace(r):
			pendingDash = b.Len() > 0
		case r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
