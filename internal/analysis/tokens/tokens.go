// Package tokens turns text into normalised token streams and profiles.
// Every other analysis package tokenises through it so that similarity,
// themes and trends agree on what a term is.
package tokens

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// MinTokenLength is the shortest token kept, in runes.
const MinTokenLength = 2

// Normalizer tokenises text. It is safe for concurrent use.
type Normalizer struct {
	stem bool
}

// New creates a Normalizer. When stem is true, simple inflections are
// collapsed (see Stem).
func New(stem bool) *Normalizer {
	return &Normalizer{stem: stem}
}

// Stemming reports whether the normaliser stems tokens.
func (n *Normalizer) Stemming() bool {
	return n.stem
}

// Normalize builds the token profile of a text. Empty input yields an
// empty profile.
func (n *Normalizer) Normalize(text string) domain.TokenProfile {
	return domain.NewTokenProfile(n.Tokens(text))
}

// Tokens returns the normalised tokens of a text in order of appearance.
func (n *Normalizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	folded := strings.ToLower(RemoveDiacritics(text))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < MinTokenLength || IsStopword(f) {
			continue
		}
		if n.stem {
			f = Stem(f)
		}
		out = append(out, f)
	}
	return out
}

// RemoveDiacritics decomposes s and strips combining marks.
func RemoveDiacritics(s string) string {
	t := norm.NFD.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, t)
}

// Stem collapses simple English inflections:
// -ies to -y, -sses to -ss, and strips -es, -s, -ing and -ed.
// Words are never reduced below three runes.
func Stem(word string) string {
	n := len([]rune(word))
	switch {
	case n > 4 && strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "sses"):
		return strings.TrimSuffix(word, "es")
	case n > 5 && strings.HasSuffix(word, "ing"):
		return strings.TrimSuffix(word, "ing")
	case n > 4 && strings.HasSuffix(word, "ed"):
		return strings.TrimSuffix(word, "ed")
	case n > 4 && (strings.HasSuffix(word, "ches") || strings.HasSuffix(word, "shes") || strings.HasSuffix(word, "xes")):
		return strings.TrimSuffix(word, "es")
	case n > 3 && strings.HasSuffix(word, "s") &&
		!strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "us") && !strings.HasSuffix(word, "is"):
		return strings.TrimSuffix(word, "s")
	default:
		return word
	}
}
