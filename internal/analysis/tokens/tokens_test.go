package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Tokens(t *testing.T) {
	n := New(false)

	t.Run("lowercases and drops stopwords", func(t *testing.T) {
		got := n.Tokens("The Knowledge Graph is a GRAPH of knowledge.")
		assert.Equal(t, []string{"knowledge", "graph", "graph", "knowledge"}, got)
	})

	t.Run("splits on non alphanumerics", func(t *testing.T) {
		got := n.Tokens("state-of-the-art, v2.0; x_y")
		assert.Equal(t, []string{"state", "art", "v2"}, got)
	})

	t.Run("drops short tokens", func(t *testing.T) {
		assert.Empty(t, n.Tokens("a b c d"))
	})

	t.Run("folds diacritics", func(t *testing.T) {
		assert.Equal(t, []string{"cafe", "naive", "resume"}, n.Tokens("Café naïve résumé"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, n.Tokens(""))
		assert.True(t, n.Normalize("").IsEmpty())
		assert.True(t, n.Normalize("   ...   ").IsEmpty())
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "Graphs connect documents; documents share themes."
		assert.Equal(t, n.Normalize(text), n.Normalize(text))
	})
}

func TestNormalizer_Stemming(t *testing.T) {
	plain := New(false)
	stemmed := New(true)

	assert.False(t, plain.Stemming())
	assert.True(t, stemmed.Stemming())
	assert.Equal(t, []string{"graphs", "studies"}, plain.Tokens("graphs studies"))
	assert.Equal(t, []string{"graph", "study"}, stemmed.Tokens("graphs studies"))
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"studies":  "study",
		"classes":  "class",
		"boxes":    "box",
		"graphs":   "graph",
		"jumped":   "jump",
		"indexing": "index",
		"analysis": "analysis",
		"status":   "status",
		"glass":    "glass",
		"bus":      "bus",
		"red":      "red",
	}
	for in, want := range tests {
		assert.Equal(t, want, Stem(in), "input %q", in)
	}
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("because"))
	assert.False(t, IsStopword("graph"))
}

func TestNormalize_Profile(t *testing.T) {
	p := New(false).Normalize("alpha beta alpha gamma")
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.Frequency("alpha"))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, p.Terms())
}

func TestSentences(t *testing.T) {
	t.Run("splits on terminal punctuation", func(t *testing.T) {
		got := Sentences("First sentence. Second one! Is this third? trailing text")
		require.Len(t, got, 4)
		assert.Equal(t, "First sentence.", got[0])
		assert.Equal(t, "Second one!", got[1])
		assert.Equal(t, "Is this third?", got[2])
		assert.Equal(t, "trailing text", got[3])
	})

	t.Run("paragraph breaks end sentences", func(t *testing.T) {
		got := Sentences("Heading\n\nBody text here.")
		assert.Equal(t, []string{"Heading", "Body text here."}, got)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"Spread over lines."}, Sentences("Spread\n  over   lines."))
	})

	t.Run("empty and punctuation only", func(t *testing.T) {
		assert.Empty(t, Sentences(""))
		assert.Empty(t, Sentences("   "))
		assert.Empty(t, Sentences("... !!"))
	})
}
