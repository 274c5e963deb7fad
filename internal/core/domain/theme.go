package domain

// WeightedTerm is a token with an aggregate weight.
type WeightedTerm struct {
	Term   string
	Weight float64
}

// ThemeEntry is a group of co-occurring top words.
type ThemeEntry struct {
	// Label is the anchor term followed by its companions.
	Label string

	// Terms are the grouped tokens, anchor first.
	Terms []string

	// Weight is the sum of the member term weights.
	Weight float64

	// DocumentIDs lists documents containing any of the terms, sorted.
	DocumentIDs []string
}

// ThemeResult is the outcome of theme extraction.
type ThemeResult struct {
	Themes        []ThemeEntry
	TopWords      []WeightedTerm
	DocumentCount int
}
