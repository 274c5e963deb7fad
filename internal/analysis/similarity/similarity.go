// Package similarity scores how related two documents are.
//
// The score is a weighted mean of the signals that apply to a pair:
//
//   - content: cosine similarity of token profiles
//   - tags: Jaccard similarity of case-folded tag sets
//   - structure: equality of group paths (disabled by default)
//   - recency: timestamp proximity, only alongside another signal
//
// A pair with no applicable signal scores exactly 0.
package similarity

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Weights configures the scorer.
type Weights struct {
	Content   float64
	Tags      float64
	Recency   float64
	Structure float64

	// Horizon is the time distance at which recency proximity reaches 0.
	Horizon time.Duration
}

// DefaultWeights returns content 0.6, tags 0.3, recency 0.1 and a one-year horizon.
func DefaultWeights() Weights {
	return WeightsFromSettings(domain.DefaultEngineSettings().Similarity)
}

// WeightsFromSettings converts engine settings to scorer weights.
func WeightsFromSettings(s domain.SimilaritySettings) Weights {
	return Weights{
		Content:   s.ContentWeight,
		Tags:      s.TagWeight,
		Recency:   s.RecencyWeight,
		Structure: s.StructureWeight,
		Horizon:   time.Duration(s.RecencyHorizonDays) * 24 * time.Hour,
	}
}

// Scorer computes similarity breakdowns between indexed documents.
type Scorer struct {
	w Weights
}

// NewScorer creates a scorer.
func NewScorer(w Weights) *Scorer {
	if w.Horizon <= 0 {
		w.Horizon = DefaultWeights().Horizon
	}
	return &Scorer{w: w}
}

// Weights returns the scorer configuration.
func (s *Scorer) Weights() Weights {
	return s.w
}

// Score compares two indexed documents. The result is symmetric.
func (s *Scorer) Score(a, b *Item) domain.SimilarityBreakdown {
	var bd domain.SimilarityBreakdown
	var weighted, total float64

	if s.w.Content > 0 && (!a.Profile.IsEmpty() || !b.Profile.IsEmpty()) {
		bd.Content = cosine(a, b)
		bd.ContentApplied = true
		weighted += s.w.Content * bd.Content
		total += s.w.Content
	}

	if s.w.Tags > 0 && (len(a.Tags) > 0 || len(b.Tags) > 0) {
		bd.Tags = Jaccard(a.Tags, b.Tags)
		bd.TagsApplied = true
		weighted += s.w.Tags * bd.Tags
		total += s.w.Tags
	}

	if s.w.Structure > 0 && a.Doc.GroupPath != "" && b.Doc.GroupPath != "" {
		if domain.CleanGroupPath(a.Doc.GroupPath) == domain.CleanGroupPath(b.Doc.GroupPath) {
			bd.Structure = 1
		}
		bd.StructureApplied = true
		weighted += s.w.Structure * bd.Structure
		total += s.w.Structure
	}

	// Recency alone never claims relatedness.
	if s.w.Recency > 0 && total > 0 && a.Doc.HasTimestamp() && b.Doc.HasTimestamp() {
		bd.Recency = Recency(a.Doc.Timestamp(), b.Doc.Timestamp(), s.w.Horizon)
		bd.RecencyApplied = true
		weighted += s.w.Recency * bd.Recency
		total += s.w.Recency
	}

	if total == 0 {
		return bd
	}
	bd.Score = clamp01(weighted / total)
	return bd
}

// cosine uses integer dot products so that self-similarity is exactly 1
// and the result does not depend on argument order.
func cosine(a, b *Item) float64 {
	if a.norm2 == 0 || b.norm2 == 0 {
		return 0
	}
	small, large := a, b
	if len(b.Profile.Counts) < len(a.Profile.Counts) {
		small, large = b, a
	}
	var dot int64
	for _, term := range small.Profile.Terms() {
		if c, ok := large.Profile.Counts[term]; ok {
			dot += int64(small.Profile.Counts[term]) * int64(c)
		}
	}
	return clamp01(float64(dot) / math.Sqrt(float64(a.norm2)*float64(b.norm2)))
}

// Cosine computes the cosine similarity of two token profiles.
func Cosine(a, b domain.TokenProfile) float64 {
	ia, ib := NewItem(nil, a), NewItem(nil, b)
	return cosine(ia, ib)
}

// Jaccard computes |a∩b| / |a∪b| over case-folded tag sets.
// Two empty sets score 0.
func Jaccard(a, b []string) float64 {
	na, nb := domain.NormaliseTags(a), domain.NormaliseTags(b)
	if len(na) == 0 && len(nb) == 0 {
		return 0
	}
	shared := len(intersectSorted(na, nb))
	union := len(na) + len(nb) - shared
	return float64(shared) / float64(union)
}

// Recency maps the distance between two timestamps to [0,1]:
// 1 for identical times, 0 at or beyond the horizon.
func Recency(a, b time.Time, horizon time.Duration) float64 {
	if horizon <= 0 {
		return 0
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return clamp01(1 - float64(d)/float64(horizon))
}

// TitleSimilarity is the Jaro-Winkler similarity of two case-folded titles.
func TitleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return clamp01(float64(edlib.JaroWinklerSimilarity(a, b)))
}

// CommonTags returns the case-folded tags shared by two documents.
func CommonTags(a, b *Item) []string {
	return intersectSorted(a.Tags, b.Tags)
}

// CommonTerms returns the shared tokens ranked by their smaller frequency,
// ties broken by term, truncated to limit (0 = all).
func CommonTerms(a, b *Item, limit int) []string {
	type shared struct {
		term string
		freq int
	}
	var out []shared
	for _, term := range a.Profile.Terms() {
		if c, ok := b.Profile.Counts[term]; ok {
			out = append(out, shared{term, min(c, a.Profile.Counts[term])})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].freq != out[j].freq {
			return out[i].freq > out[j].freq
		}
		return out[i].term < out[j].term
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	terms := make([]string, len(out))
	for i, s := range out {
		terms[i] = s.term
	}
	return terms
}

// CommonTermCount returns the number of distinct shared tokens.
func CommonTermCount(a, b *Item) int {
	n := 0
	for term := range a.Profile.Counts {
		if _, ok := b.Profile.Counts[term]; ok {
			n++
		}
	}
	return n
}

func intersectSorted(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
