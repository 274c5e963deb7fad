// Package cluster partitions documents into connected components of a
// similarity graph.
package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docgraph/internal/analysis/pairwise"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/analysis/themes"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	maxLabelThemes = 3
	maxKeywords    = 5
)

// Detector finds clusters of related documents.
type Detector struct {
	scorer *similarity.Scorer
	pool   *pairwise.Pool
	themes *themes.Extractor
}

// NewDetector creates a detector.
func NewDetector(scorer *similarity.Scorer, pool *pairwise.Pool, extractor *themes.Extractor) *Detector {
	return &Detector{scorer: scorer, pool: pool, themes: extractor}
}

// Detect scores every pair, links pairs at or above threshold and reports
// each connected component with at least minSize members as a cluster.
// Smaller components are listed as unclustered. Clusters are ordered by
// cohesion, then size, then smallest member ID.
func (d *Detector) Detect(ctx context.Context, idx *similarity.Index, minSize int, threshold float64) (*domain.ClusterResult, error) {
	if minSize < 1 {
		return nil, fmt.Errorf("%w: minimum cluster size must be at least 1, got %d", domain.ErrInvalidArgument, minSize)
	}
	if !(threshold > 0 && threshold <= 1) {
		return nil, fmt.Errorf("%w: threshold must be in (0,1], got %v", domain.ErrInvalidArgument, threshold)
	}
	if idx.Len() == 0 {
		return nil, fmt.Errorf("%w: no documents to cluster", domain.ErrInsufficientData)
	}

	pairs, err := d.pool.All(ctx, idx.Len(), func(i, j int) domain.SimilarityBreakdown {
		return d.scorer.Score(idx.At(i), idx.At(j))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}

	scores := make(map[[2]int]float64, len(pairs))
	adj := make([][]int, idx.Len())
	for _, p := range pairs {
		scores[[2]int{p.I, p.J}] = p.Breakdown.Score
	}
	for _, p := range pairwise.Filter(pairs, threshold) {
		adj[p.I] = append(adj[p.I], p.J)
		adj[p.J] = append(adj[p.J], p.I)
	}

	res := &domain.ClusterResult{
		DocumentCount:  idx.Len(),
		MinClusterSize: minSize,
		Threshold:      threshold,
		Clusters:       []domain.Cluster{},
	}

	seen := make([]bool, idx.Len())
	for start := 0; start < idx.Len(); start++ {
		if seen[start] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}

		members := component(start, adj, seen)
		if len(members) < minSize {
			for _, m := range members {
				res.Unclustered = append(res.Unclustered, idx.At(m).Doc.ID)
			}
			continue
		}
		res.Clusters = append(res.Clusters, d.describe(idx, members, scores))
	}

	sort.SliceStable(res.Clusters, func(i, j int) bool {
		a, b := res.Clusters[i], res.Clusters[j]
		if a.Cohesion != b.Cohesion {
			return a.Cohesion > b.Cohesion
		}
		if a.Size() != b.Size() {
			return a.Size() > b.Size()
		}
		return a.Members[0] < b.Members[0]
	})
	for i := range res.Clusters {
		res.Clusters[i].ID = i + 1
		if res.Clusters[i].Label == "" {
			res.Clusters[i].Label = fmt.Sprintf("cluster %d", i+1)
		}
	}
	sort.Strings(res.Unclustered)
	return res, nil
}

// component collects the connected component of start with an explicit
// worklist. Members are returned in index (ID) order.
func component(start int, adj [][]int, seen []bool) []int {
	seen[start] = true
	members := []int{start}
	work := []int{start}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, n := range adj[cur] {
			if !seen[n] {
				seen[n] = true
				members = append(members, n)
				work = append(work, n)
			}
		}
	}
	sort.Ints(members)
	return members
}

func (d *Detector) describe(idx *similarity.Index, members []int, scores map[[2]int]float64) domain.Cluster {
	c := domain.Cluster{Members: make([]string, len(members))}
	docs := make([]themes.Doc, len(members))
	for k, m := range members {
		it := idx.At(m)
		c.Members[k] = it.Doc.ID
		docs[k] = themes.Doc{ID: it.Doc.ID, Profile: it.Profile}
	}
	c.Cohesion = Cohesion(members, scores)

	extracted := d.themes.Extract(docs)
	for _, w := range extracted.TopWords {
		if len(c.Keywords) == maxKeywords {
			break
		}
		c.Keywords = append(c.Keywords, w.Term)
	}

	var labels []string
	for _, th := range extracted.Themes {
		if len(labels) == maxLabelThemes {
			break
		}
		labels = append(labels, th.Terms[0])
	}
	if len(labels) == 0 {
		labels = sharedTags(idx, members)
	}
	c.Label = strings.Join(labels, ", ")
	return c
}

// Cohesion is the mean pairwise similarity of members, or 0 for fewer
// than two members. Scores are keyed by (i, j) with i < j.
func Cohesion(members []int, scores map[[2]int]float64) float64 {
	if len(members) < 2 {
		return 0
	}
	var sum float64
	n := 0
	for a := 0; a < len(members); a++ {
		for b := a + 1; b < len(members); b++ {
			i, j := members[a], members[b]
			if i > j {
				i, j = j, i
			}
			sum += scores[[2]int{i, j}]
			n++
		}
	}
	return sum / float64(n)
}

func sharedTags(idx *similarity.Index, members []int) []string {
	counts := make(map[string]int)
	for _, m := range members {
		for _, tag := range idx.At(m).Tags {
			counts[tag]++
		}
	}
	var shared []string
	for tag, n := range counts {
		if n == len(members) {
			shared = append(shared, tag)
		}
	}
	sort.Strings(shared)
	if len(shared) > maxLabelThemes {
		shared = shared[:maxLabelThemes]
	}
	return shared
}
