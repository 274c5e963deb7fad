package domain

// SimilarityBreakdown reports the combined score and its signals.
type SimilarityBreakdown struct {
	// Score is the combined similarity in [0,1].
	Score float64

	Content   float64
	Tags      float64
	Recency   float64
	Structure float64

	// Applied flags record which signals contributed to Score.
	ContentApplied   bool
	TagsApplied      bool
	RecencyApplied   bool
	StructureApplied bool
}

// DocumentComparison is a pairwise comparison.
type DocumentComparison struct {
	Document1  string
	Document2  string
	Title1     string
	Title2     string
	Similarity float64
	Breakdown  SimilarityBreakdown

	// TitleSimilarity is an informational Jaro-Winkler score of the titles.
	TitleSimilarity float64

	CommonWords     []string
	CommonWordCount int
	CommonTags      []string
}

// SimilarityMatrix holds all N·(N-1)/2 comparisons of a document set.
type SimilarityMatrix struct {
	DocumentIDs []string
	Comparisons []DocumentComparison

	// MostSimilar is the highest-scoring pair (nil for an empty matrix).
	MostSimilar *DocumentComparison

	AverageSimilarity float64
}
