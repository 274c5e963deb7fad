package domain

import "strings"

// SynthesisMode selects how documents are combined.
type SynthesisMode string

// Supported synthesis modes.
const (
	// SynthesisSummary extracts the top-ranked sentences across all documents.
	SynthesisSummary SynthesisMode = "summary"

	// SynthesisComparison extracts key points of exactly two documents side by side.
	SynthesisComparison SynthesisMode = "comparison"

	// SynthesisThemes lists dominant themes with a representative sentence each.
	SynthesisThemes SynthesisMode = "themes"

	// SynthesisConsensus extracts sentences whose terms most documents share.
	SynthesisConsensus SynthesisMode = "consensus"
)

// SynthesisModes lists every supported mode.
func SynthesisModes() []SynthesisMode {
	return []SynthesisMode{SynthesisSummary, SynthesisComparison, SynthesisThemes, SynthesisConsensus}
}

// ParseSynthesisMode parses a mode name case-insensitively. Empty selects summary.
func ParseSynthesisMode(s string) (SynthesisMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SynthesisSummary, true
	}
	for _, m := range SynthesisModes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// ExtractedSentence is a sentence selected for a synthesis.
type ExtractedSentence struct {
	Text       string
	DocumentID string
	Title      string
	Score      float64

	// Position is the sentence index within its document.
	Position int
}

// KeyPoints holds the sentences extracted from one document in comparison mode.
type KeyPoints struct {
	DocumentID  string
	Title       string
	Sentences   []ExtractedSentence
	Distinctive []string
}

// Synthesis is the result of combining documents.
type Synthesis struct {
	Mode SynthesisMode

	// Text is the rendered synthesis. It is empty when no sentence could
	// be extracted.
	Text string

	SourceCount   int
	SentenceCount int

	Sentences []ExtractedSentence

	// KeyPoints is populated in comparison mode.
	KeyPoints []KeyPoints

	// SharedTerms is populated in comparison and consensus modes.
	SharedTerms []string

	// Themes is populated in themes mode.
	Themes []ThemeEntry
}
