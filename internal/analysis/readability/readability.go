// Package readability computes text statistics and the Flesch Reading Ease
// score of a document.
package readability

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/docgraph/internal/analysis/themes"
	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	wordsPerMinute  = 200
	complexSyllable = 3
	keySentences    = 3
	topTerms        = 10
)

// Analyzer computes document statistics.
type Analyzer struct {
	norm *tokens.Normalizer
}

// New creates an analyzer.
func New(n *tokens.Normalizer) *Analyzer {
	return &Analyzer{norm: n}
}

// Analyze computes the statistics of a document's content. A document
// without words yields zero counts and no readability level.
func (a *Analyzer) Analyze(doc *domain.Document) *domain.DocumentAnalysis {
	res := &domain.DocumentAnalysis{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		CharacterCount: len([]rune(doc.Content)),
	}

	sentences := tokens.Sentences(doc.Content)
	words := Words(doc.Content)
	res.WordCount = len(words)
	res.SentenceCount = len(sentences)
	if res.WordCount == 0 {
		return res
	}
	if res.SentenceCount == 0 {
		res.SentenceCount = 1
	}

	var syllables, complexWords, letters int
	for _, w := range words {
		n := Syllables(w)
		syllables += n
		if n >= complexSyllable {
			complexWords++
		}
		letters += len([]rune(w))
	}

	wc := float64(res.WordCount)
	res.AverageSentenceLength = round2(wc / float64(res.SentenceCount))
	res.AverageWordLength = round2(float64(letters) / wc)
	res.ComplexWordPercent = round2(100 * float64(complexWords) / wc)
	res.ReadabilityScore = round2(Flesch(res.WordCount, res.SentenceCount, syllables))
	res.ReadabilityLevel = Level(res.ReadabilityScore)
	res.ReadingTimeMinutes = round2(wc / wordsPerMinute)

	profile := a.norm.Normalize(doc.Content)
	weights := themes.Weigh([]themes.Doc{{ID: doc.ID, Profile: profile}}, false)
	res.TopTerms = weights.Top(topTerms)
	res.KeySentences = a.keySentences(sentences, weights)
	return res
}

// Flesch computes the Flesch Reading Ease score clipped to [0,100].
func Flesch(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	score := 206.835 -
		1.015*(float64(words)/float64(sentences)) -
		84.6*(float64(syllables)/float64(words))
	return math.Max(0, math.Min(100, score))
}

// Level labels a Flesch score.
func Level(score float64) domain.ReadabilityLevel {
	switch {
	case score >= 90:
		return domain.ReadabilityVeryEasy
	case score >= 80:
		return domain.ReadabilityEasy
	case score >= 70:
		return domain.ReadabilityFairlyEasy
	case score >= 60:
		return domain.ReadabilityStandard
	case score >= 50:
		return domain.ReadabilityFairlyDifficult
	case score >= 30:
		return domain.ReadabilityDifficult
	default:
		return domain.ReadabilityVeryDifficult
	}
}

// Words splits text into lowercased words, keeping stopwords.
func Words(text string) []string {
	folded := strings.ToLower(tokens.RemoveDiacritics(text))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Syllables estimates the syllable count of an English word by counting
// vowel groups, ignoring a silent trailing "e". Every word has at least one.
func Syllables(word string) int {
	word = strings.Trim(strings.ToLower(word), "'")
	if word == "" {
		return 0
	}
	count := 0
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	return max(count, 1)
}

func (a *Analyzer) keySentences(sentences []string, weights themes.Weights) []string {
	type scored struct {
		pos   int
		score float64
	}
	var ranked []scored
	for i, s := range sentences {
		toks := a.norm.Tokens(s)
		if len(toks) == 0 {
			continue
		}
		var sum float64
		for _, t := range toks {
			sum += weights[t]
		}
		ranked = append(ranked, scored{i, sum / math.Sqrt(float64(len(toks)))})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > keySentences {
		ranked = ranked[:keySentences]
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].pos < ranked[j].pos })

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = sentences[r.pos]
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
