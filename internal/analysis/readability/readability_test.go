package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":         1,
		"make":        1,
		"table":       2,
		"graph":       1,
		"readability": 5,
		"beautiful":   3,
		"rhythm":      1,
		"":            0,
	}
	for word, want := range tests {
		assert.Equal(t, want, Syllables(word), word)
	}
}

func TestFlesch(t *testing.T) {
	assert.Zero(t, Flesch(0, 0, 0))
	assert.InDelta(t, 206.835-1.015*10-84.6*1.5, Flesch(20, 2, 30), 1e-9)
	assert.Equal(t, 100.0, Flesch(1, 1, 1))
	assert.Equal(t, 0.0, Flesch(10, 1, 60))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, domain.ReadabilityVeryEasy, Level(95))
	assert.Equal(t, domain.ReadabilityStandard, Level(65))
	assert.Equal(t, domain.ReadabilityDifficult, Level(40))
	assert.Equal(t, domain.ReadabilityVeryDifficult, Level(10))
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := New(tokens.New(false))

	t.Run("simple text", func(t *testing.T) {
		doc := &domain.Document{
			ID:      "d1",
			Title:   "Cats",
			Content: "The cat sat on the mat. The cat was fat. Graph theory studies networks of relationships.",
		}
		res := a.Analyze(doc)
		assert.Equal(t, "d1", res.DocumentID)
		assert.Equal(t, 16, res.WordCount)
		assert.Equal(t, 3, res.SentenceCount)
		assert.InDelta(t, 5.33, res.AverageSentenceLength, 0.01)
		assert.Greater(t, res.ReadabilityScore, 0.0)
		assert.LessOrEqual(t, res.ReadabilityScore, 100.0)
		assert.NotEmpty(t, res.ReadabilityLevel)
		assert.InDelta(t, 0.08, res.ReadingTimeMinutes, 0.001)
		require.NotEmpty(t, res.TopTerms)
		assert.Equal(t, "cat", res.TopTerms[0].Term)
		assert.Len(t, res.KeySentences, 3)
		assert.Equal(t, "The cat sat on the mat.", res.KeySentences[0])
	})

	t.Run("empty content", func(t *testing.T) {
		res := a.Analyze(&domain.Document{ID: "e"})
		assert.Zero(t, res.WordCount)
		assert.Zero(t, res.ReadabilityScore)
		assert.Empty(t, res.ReadabilityLevel)
		assert.Empty(t, res.KeySentences)
	})
}
