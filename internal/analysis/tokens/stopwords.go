package tokens

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "don", "should", "now", "not", "no", "nor",
		"do", "does", "did", "has", "have", "had", "having", "he", "she", "they", "them", "their", "his",
		"her", "we", "our", "you", "your", "me", "my", "who", "whom", "which", "what", "when", "where",
		"why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "only", "also",
		"there", "here", "would", "could", "may", "might", "must", "shall", "while", "because", "until",
		"once", "am", "i",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopword reports whether a lowercased token is in the fixed stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
