package domain

// ReadabilityLevel labels a Flesch Reading Ease score.
type ReadabilityLevel string

// Readability levels, easiest first.
const (
	ReadabilityVeryEasy        ReadabilityLevel = "very easy"
	ReadabilityEasy            ReadabilityLevel = "easy"
	ReadabilityFairlyEasy      ReadabilityLevel = "fairly easy"
	ReadabilityStandard        ReadabilityLevel = "standard"
	ReadabilityFairlyDifficult ReadabilityLevel = "fairly difficult"
	ReadabilityDifficult       ReadabilityLevel = "difficult"
	ReadabilityVeryDifficult   ReadabilityLevel = "very difficult"
)

// DocumentAnalysis holds text statistics for a single document.
type DocumentAnalysis struct {
	DocumentID string
	Title      string

	WordCount      int
	SentenceCount  int
	CharacterCount int

	AverageSentenceLength float64
	AverageWordLength     float64

	// ComplexWordPercent is the share of words with three or more syllables.
	ComplexWordPercent float64

	ReadabilityScore float64
	ReadabilityLevel ReadabilityLevel

	// ReadingTimeMinutes assumes 200 words per minute.
	ReadingTimeMinutes float64

	TopTerms     []WeightedTerm
	KeySentences []string
}
