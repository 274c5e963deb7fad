// Package themes ranks the dominant terms of a document set and groups
// co-occurring terms into themes.
package themes

import (
	"math"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	// DefaultMax truncates themes and top words.
	DefaultMax = 20

	// cooccurrence is the minimum Jaccard overlap of two terms' document
	// sets for them to share a theme.
	cooccurrence = 0.5

	// spelling is the minimum Jaro-Winkler similarity for two terms to be
	// treated as variants of one word.
	spelling = 0.92

	// maxThemeTerms bounds the number of terms grouped under one theme.
	maxThemeTerms = 4
)

// Doc is a profiled document.
type Doc struct {
	ID      string
	Profile domain.TokenProfile
}

// Options configures extraction.
type Options struct {
	// Max truncates both result lists (0 = DefaultMax).
	Max int

	// UseIDF scales term frequency by smoothed inverse document frequency.
	UseIDF bool
}

// Extractor derives themes from profiled documents.
type Extractor struct {
	opts Options
}

// New creates an extractor.
func New(opts Options) *Extractor {
	if opts.Max <= 0 {
		opts.Max = DefaultMax
	}
	return &Extractor{opts: opts}
}

// Weights holds normalised term weights; the heaviest term weighs 1.
type Weights map[string]float64

// Weigh computes tf or tf×idf weights over docs, normalised to a maximum of 1.
// idf is the smoothed ln((1+N)/(1+df)) + 1.
func Weigh(docs []Doc, useIDF bool) Weights {
	tf := make(map[string]int)
	df := make(map[string]int)
	for _, d := range docs {
		for term, c := range d.Profile.Counts {
			tf[term] += c
			df[term]++
		}
	}

	n := float64(len(docs))
	w := make(Weights, len(tf))
	maxW := 0.0
	for term, f := range tf {
		v := float64(f)
		if useIDF {
			v *= math.Log((1+n)/(1+float64(df[term]))) + 1
		}
		w[term] = v
		maxW = math.Max(maxW, v)
	}
	if maxW > 0 {
		for term := range w {
			w[term] /= maxW
		}
	}
	return w
}

// Ranked returns terms by descending weight, ties broken by term.
func (w Weights) Ranked() []domain.WeightedTerm {
	out := make([]domain.WeightedTerm, 0, len(w))
	for term, v := range w {
		out = append(out, domain.WeightedTerm{Term: term, Weight: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// Top returns the n heaviest terms.
func (w Weights) Top(n int) []domain.WeightedTerm {
	ranked := w.Ranked()
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// theme accumulates the terms grouped under one anchor.
type theme struct {
	entry   domain.ThemeEntry
	members [][]string
}

// add folds term into the theme. Only the first maxThemeTerms terms are
// listed; later spelling variants still add their weight and documents.
func (t *theme) add(term domain.WeightedTerm, docs []string) {
	if len(t.entry.Terms) < maxThemeTerms {
		t.entry.Terms = append(t.entry.Terms, term.Term)
	}
	t.entry.Weight += term.Weight
	t.members = append(t.members, docs)
}

// Extract ranks top words and groups them into themes. Each term, heaviest
// first, joins the theme of an earlier term it is a spelling variant of,
// else the earliest theme with room whose anchor co-occurs with it, else
// anchors a new theme. The result is deterministic for identical input.
func (e *Extractor) Extract(docs []Doc) domain.ThemeResult {
	res := domain.ThemeResult{DocumentCount: len(docs)}
	top := Weigh(docs, e.opts.UseIDF).Top(e.opts.Max)
	res.TopWords = top
	if len(top) == 0 {
		return res
	}

	docSets := documentSets(docs, top)
	grouped := orderedmap.New[string, *theme]() // anchor -> theme, by rank
	owner := orderedmap.New[string, string]()   // term -> anchor, by rank

	for _, term := range top {
		anchor, ok := variantOwner(owner, term.Term)
		if !ok {
			anchor, ok = cooccurringAnchor(grouped, term.Term, docSets)
		}
		if !ok {
			anchor = term.Term
			grouped.Set(anchor, &theme{})
		}
		th, _ := grouped.Get(anchor)
		th.add(term, docSets[term.Term])
		owner.Set(term.Term, anchor)
	}

	res.Themes = make([]domain.ThemeEntry, 0, grouped.Len())
	for pair := grouped.Oldest(); pair != nil; pair = pair.Next() {
		entry := pair.Value.entry
		entry.Label = strings.Join(entry.Terms, " ")
		entry.DocumentIDs = union(pair.Value.members...)
		res.Themes = append(res.Themes, entry)
	}
	sort.SliceStable(res.Themes, func(i, j int) bool {
		if res.Themes[i].Weight != res.Themes[j].Weight {
			return res.Themes[i].Weight > res.Themes[j].Weight
		}
		return res.Themes[i].Label < res.Themes[j].Label
	})
	if len(res.Themes) > e.opts.Max {
		res.Themes = res.Themes[:e.opts.Max]
	}
	return res
}

// variantOwner returns the anchor of the first grouped term that term is a
// spelling variant of.
func variantOwner(owner *orderedmap.OrderedMap[string, string], term string) (string, bool) {
	for pair := owner.Oldest(); pair != nil; pair = pair.Next() {
		if SpellingVariants(pair.Key, term) {
			return pair.Value, true
		}
	}
	return "", false
}

// cooccurringAnchor returns the first anchor with room whose documents
// overlap term's enough to share a theme.
func cooccurringAnchor(grouped *orderedmap.OrderedMap[string, *theme], term string, docSets map[string][]string) (string, bool) {
	for pair := grouped.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value.entry.Terms) >= maxThemeTerms {
			continue
		}
		if jaccard(docSets[pair.Key], docSets[term]) >= cooccurrence {
			return pair.Key, true
		}
	}
	return "", false
}

// SpellingVariants reports whether two terms are near-identical spellings.
func SpellingVariants(a, b string) bool {
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	return float64(edlib.JaroWinklerSimilarity(a, b)) >= spelling
}

// documentSets maps each top term to the sorted IDs of documents containing it.
func documentSets(docs []Doc, top []domain.WeightedTerm) map[string][]string {
	sets := make(map[string][]string, len(top))
	for _, t := range top {
		sets[t.Term] = nil
	}
	for _, d := range docs {
		for term := range sets {
			if d.Profile.Counts[term] > 0 {
				sets[term] = append(sets[term], d.ID)
			}
		}
	}
	for term := range sets {
		sort.Strings(sets[term])
	}
	return sets
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}
	shared := 0
	for _, x := range b {
		if _, ok := set[x]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

func union(sets ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range sets {
		for _, x := range s {
			if _, ok := seen[x]; !ok {
				seen[x] = struct{}{}
				out = append(out, x)
			}
		}
	}
	sort.Strings(out)
	return out
}
