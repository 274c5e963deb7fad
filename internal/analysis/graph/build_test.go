package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/analysis/pairwise"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// chain links each document to the next through one shared term.
func chain() []domain.Document {
	return []domain.Document{
		{ID: "d1", Content: "apple banana"},
		{ID: "d2", Content: "banana cherry"},
		{ID: "d3", Content: "cherry damson"},
		{ID: "d4", Content: "damson elder"},
		{ID: "d5", Content: "unrelated zebra"},
	}
}

func builder() *Builder {
	return NewBuilder(similarity.NewScorer(similarity.DefaultWeights()), pairwise.New(2))
}

func chainIndex() *similarity.Index {
	return similarity.NewIndex(chain(), tokens.New(false))
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("expands level by level", func(t *testing.T) {
		res, err := builder().Build(ctx, "d1", chainIndex(), 2, 0.3)
		require.NoError(t, err)

		nodes := res.Graph.Nodes()
		require.Len(t, nodes, 3)
		assert.Equal(t, "d1", nodes[0].ID)
		assert.Equal(t, 0, nodes[0].Depth)
		assert.Equal(t, "d2", nodes[1].ID)
		assert.Equal(t, 1, nodes[1].Depth)
		assert.Equal(t, "d3", nodes[2].ID)
		assert.Equal(t, 2, nodes[2].Depth)
		assert.Equal(t, 2, res.DepthReached)
		assert.Equal(t, 2, res.Graph.EdgeCount())
		assert.False(t, res.Exhausted)
	})

	t.Run("stops when nothing new is found", func(t *testing.T) {
		res, err := builder().Build(ctx, "d1", chainIndex(), 10, 0.3)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Graph.NodeCount())
		assert.Equal(t, 3, res.DepthReached)
		assert.False(t, res.Graph.HasNode("d5"))
		assert.True(t, res.Exhausted)
	})

	t.Run("isolated seed", func(t *testing.T) {
		res, err := builder().Build(ctx, "d5", chainIndex(), 3, 0.3)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Graph.NodeCount())
		assert.Zero(t, res.DepthReached)
		assert.True(t, res.Exhausted)
	})

	t.Run("links within the last level", func(t *testing.T) {
		docs := []domain.Document{
			{ID: "hub", Content: "graph node"},
			{ID: "x", Content: "graph node edge"},
			{ID: "y", Content: "graph node edge"},
		}
		idx := similarity.NewIndex(docs, tokens.New(false))
		res, err := builder().Build(ctx, "hub", idx, 1, 0.3)
		require.NoError(t, err)
		_, ok := res.Graph.Weight("x", "y")
		assert.True(t, ok)
		assert.Equal(t, 3, res.Graph.EdgeCount())
	})

	t.Run("rejects non-positive depth", func(t *testing.T) {
		for _, depth := range []int{0, -1} {
			_, err := builder().Build(ctx, "d1", chainIndex(), depth, 0.3)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		}
	})

	t.Run("rejects bad threshold", func(t *testing.T) {
		_, err := builder().Build(ctx, "d1", chainIndex(), 1, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("unknown seed", func(t *testing.T) {
		_, err := builder().Build(ctx, "nope", chainIndex(), 1, 0.3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := builder().Build(cctx, "d1", chainIndex(), 2, 0.3)
		assert.ErrorIs(t, err, domain.ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("knowledge graph conversion", func(t *testing.T) {
		res, err := builder().Build(ctx, "d1", chainIndex(), 2, 0.3)
		require.NoError(t, err)
		kg := res.Knowledge("d1", 2, 0.3, 5)
		assert.Equal(t, "d1", kg.Seed)
		assert.Equal(t, 5, kg.CorpusSize)
		assert.Len(t, kg.Nodes, 3)
		assert.Len(t, kg.Edges, 2)
	})
}

func TestFromPairs(t *testing.T) {
	idx := chainIndex()
	s := similarity.NewScorer(similarity.DefaultWeights())
	pairs, err := pairwise.New(2).All(context.Background(), idx.Len(), func(i, j int) domain.SimilarityBreakdown {
		return s.Score(idx.At(i), idx.At(j))
	})
	require.NoError(t, err)

	g, err := FromPairs(idx, pairs, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	res, err := g.ShortestPath("d1", "d4")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, res.Path)
}
