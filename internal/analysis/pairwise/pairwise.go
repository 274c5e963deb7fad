// Package pairwise scores document pairs on a bounded worker pool.
//
// Results are returned sorted by the canonical pair key (I, J) with I < J,
// so the degree of parallelism never changes the output.
package pairwise

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// chunkSize is the number of pairs scored per task.
const chunkSize = 256

// Pair is a scored pair of item positions. I < J.
type Pair struct {
	I, J      int
	Breakdown domain.SimilarityBreakdown
}

// ScoreFunc scores the items at positions i and j.
type ScoreFunc func(i, j int) domain.SimilarityBreakdown

// Pool runs pair scoring with a fixed concurrency limit.
type Pool struct {
	workers int
}

// New creates a pool. workers <= 0 selects GOMAXPROCS.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// All scores every pair of n items.
func (p *Pool) All(ctx context.Context, n int, score ScoreFunc) ([]Pair, error) {
	if n < 2 {
		return nil, ctx.Err()
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return p.run(ctx, pairs, score)
}

// Between scores every pair of one item from from and one from to, plus
// every pair inside from. Pairs of an item with itself are skipped and
// each unordered pair is scored once.
func (p *Pool) Between(ctx context.Context, from, to []int, score ScoreFunc) ([]Pair, error) {
	seen := make(map[[2]int]struct{})
	var pairs []Pair
	add := func(a, b int) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		pairs = append(pairs, Pair{I: a, J: b})
	}
	for x, a := range from {
		for _, b := range from[x+1:] {
			add(a, b)
		}
		for _, b := range to {
			add(a, b)
		}
	}
	return p.run(ctx, pairs, score)
}

// Filter keeps pairs whose score is at least threshold. The input order
// is preserved.
func Filter(pairs []Pair, threshold float64) []Pair {
	out := pairs[:0:0]
	for _, pr := range pairs {
		if pr.Breakdown.Score > 0 && pr.Breakdown.Score >= threshold {
			out = append(out, pr)
		}
	}
	return out
}

func (p *Pool) run(ctx context.Context, pairs []Pair, score ScoreFunc) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	// Each task owns a disjoint range of pairs, so results need no lock.
	for start := 0; start < len(pairs); start += chunkSize {
		end := min(start+chunkSize, len(pairs))
		chunk := pairs[start:end]
		g.Go(func() error {
			for k := range chunk {
				if k%32 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				chunk[k].Breakdown = score(chunk[k].I, chunk[k].J)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs, nil
}
