package domain

import "sort"

// TokenProfile is the normalised-term frequency representation of a text.
type TokenProfile struct {
	// Counts maps each normalised token to its frequency.
	Counts map[string]int

	// Total is the number of tokens counted (sum of Counts).
	Total int

	terms []string
}

// NewTokenProfile builds a profile from a token stream.
func NewTokenProfile(tokens []string) TokenProfile {
	p := TokenProfile{Counts: make(map[string]int, len(tokens))}
	for _, t := range tokens {
		p.Counts[t]++
		p.Total++
	}
	p.terms = sortedKeys(p.Counts)
	return p
}

// IsEmpty reports whether the profile has no tokens.
func (p TokenProfile) IsEmpty() bool {
	return p.Total == 0
}

// Frequency returns the count of a token.
func (p TokenProfile) Frequency(term string) int {
	return p.Counts[term]
}

// Terms returns the distinct tokens in sorted order.
func (p TokenProfile) Terms() []string {
	if p.terms == nil && len(p.Counts) > 0 {
		return sortedKeys(p.Counts)
	}
	return p.terms
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
