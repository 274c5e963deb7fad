package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docgraph/internal/analysis/pairwise"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Builder expands knowledge graphs over an indexed corpus.
type Builder struct {
	scorer *similarity.Scorer
	pool   *pairwise.Pool
}

// NewBuilder creates a builder.
func NewBuilder(scorer *similarity.Scorer, pool *pairwise.Pool) *Builder {
	return &Builder{scorer: scorer, pool: pool}
}

// Result is a built graph with its expansion statistics.
type Result struct {
	Graph        *Graph
	DepthReached int

	// Exhausted is set when expansion ran out of documents to discover
	// before reaching maxDepth.
	Exhausted bool
}

// Build expands breadth-first from seed. Each level scores the frontier
// against the undiscovered corpus and against itself; documents reached
// by an edge at or above threshold form the next frontier. Expansion stops
// after maxDepth levels or when a level discovers nothing. The context is
// checked between levels.
func (b *Builder) Build(ctx context.Context, seed string, idx *similarity.Index, maxDepth int, threshold float64) (*Result, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: maxDepth must be at least 1, got %d", domain.ErrInvalidArgument, maxDepth)
	}
	if !(threshold > 0 && threshold <= 1) {
		return nil, fmt.Errorf("%w: edge threshold must be in (0,1], got %v", domain.ErrInvalidArgument, threshold)
	}
	seedPos, ok := idx.Lookup(seed)
	if !ok {
		return nil, fmt.Errorf("%w: seed %s", domain.ErrNotFound, seed)
	}

	g := New()
	addNode(g, idx, seedPos, 0)
	visited := map[int]bool{seedPos: true}
	frontier := []int{seedPos}
	res := &Result{Graph: g}

	score := func(i, j int) domain.SimilarityBreakdown {
		return b.scorer.Score(idx.At(i), idx.At(j))
	}

	for level := 1; level <= maxDepth && len(frontier) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: level %d: %w", domain.ErrCancelled, level, err)
		}

		remaining := make([]int, 0, idx.Len()-len(visited))
		for i := 0; i < idx.Len(); i++ {
			if !visited[i] {
				remaining = append(remaining, i)
			}
		}

		pairs, err := b.pool.Between(ctx, frontier, remaining, score)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %w", domain.ErrCancelled, level, err)
		}
		pairs = pairwise.Filter(pairs, threshold)

		var next []int
		for _, p := range pairs {
			for _, pos := range []int{p.I, p.J} {
				if !visited[pos] {
					visited[pos] = true
					next = append(next, pos)
				}
			}
		}
		sort.Ints(next)
		for _, pos := range next {
			addNode(g, idx, pos, level)
		}
		if err := addEdges(g, idx, pairs); err != nil {
			return nil, err
		}

		if len(next) > 0 {
			res.DepthReached = level
		}
		frontier = next
	}
	res.Exhausted = len(frontier) == 0 || len(visited) == idx.Len()

	// Links among the last discovered level.
	if len(frontier) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		pairs, err := b.pool.Between(ctx, frontier, nil, score)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		if err := addEdges(g, idx, pairwise.Filter(pairs, threshold)); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// FromPairs builds a graph over every indexed document from scored pairs,
// keeping pairs at or above threshold.
func FromPairs(idx *similarity.Index, pairs []pairwise.Pair, threshold float64) (*Graph, error) {
	g := New()
	for i := 0; i < idx.Len(); i++ {
		addNode(g, idx, i, 0)
	}
	if err := addEdges(g, idx, pairwise.Filter(pairs, threshold)); err != nil {
		return nil, err
	}
	return g, nil
}

func addNode(g *Graph, idx *similarity.Index, pos, depth int) {
	d := idx.At(pos).Doc
	g.AddNode(d.ID, d.Title, depth)
}

func addEdges(g *Graph, idx *similarity.Index, pairs []pairwise.Pair) error {
	for _, p := range pairs {
		if err := g.AddEdge(idx.At(p.I).Doc.ID, idx.At(p.J).Doc.ID, p.Breakdown.Score); err != nil {
			return fmt.Errorf("add edge: %w", err)
		}
	}
	return nil
}

// Knowledge converts a build result to its domain representation.
func (r *Result) Knowledge(seed string, maxDepth int, threshold float64, corpusSize int) *domain.KnowledgeGraph {
	return &domain.KnowledgeGraph{
		Seed:          seed,
		MaxDepth:      maxDepth,
		DepthReached:  r.DepthReached,
		EdgeThreshold: threshold,
		Nodes:         r.Graph.Nodes(),
		Edges:         r.Graph.Edges(),
		CorpusSize:    corpusSize,
	}
}
