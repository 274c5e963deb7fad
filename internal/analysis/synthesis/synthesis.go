// Package synthesis produces extractive multi-document syntheses.
// Sentences are only ever selected from the source documents; when none can
// be extracted the synthesis is empty.
package synthesis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/docgraph/internal/analysis/themes"
	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	// DefaultSentences is the number of sentences selected in summary mode.
	DefaultSentences = 5

	keyPointsPerDocument = 3
	termListLimit        = 10
	themeLines           = 5
)

// Options configures the engine.
type Options struct {
	// Sentences is the summary length (0 = DefaultSentences).
	Sentences int

	// UseIDF selects tf×idf term weights for sentence scoring.
	UseIDF bool
}

// Engine builds syntheses.
type Engine struct {
	norm *tokens.Normalizer
	opts Options
}

// New creates an engine.
func New(n *tokens.Normalizer, opts Options) *Engine {
	if opts.Sentences <= 0 {
		opts.Sentences = DefaultSentences
	}
	return &Engine{norm: n, opts: opts}
}

// candidate is a scorable sentence.
type candidate struct {
	domain.ExtractedSentence
	doc    int
	tokens []string
}

// corpus holds the per-call working state.
type corpus struct {
	docs       []domain.Document
	profiles   []themes.Doc
	weights    themes.Weights
	candidates []candidate
}

// Synthesize combines docs according to mode.
func (e *Engine) Synthesize(docs []domain.Document, mode domain.SynthesisMode) (*domain.Synthesis, error) {
	switch mode {
	case domain.SynthesisComparison:
		if len(docs) != 2 {
			return nil, fmt.Errorf("%w: comparison needs exactly 2 documents, got %d", domain.ErrInvalidArgument, len(docs))
		}
	case domain.SynthesisConsensus:
		if len(docs) < 2 {
			return nil, fmt.Errorf("%w: consensus needs at least 2 documents, got %d", domain.ErrInsufficientData, len(docs))
		}
	case domain.SynthesisSummary, domain.SynthesisThemes:
	default:
		return nil, fmt.Errorf("%w: unknown synthesis mode %q", domain.ErrInvalidArgument, mode)
	}

	c := e.prepare(docs)
	out := &domain.Synthesis{Mode: mode, SourceCount: len(docs)}

	switch mode {
	case domain.SynthesisSummary:
		e.summary(c, out)
	case domain.SynthesisComparison:
		e.comparison(c, out)
	case domain.SynthesisThemes:
		e.byTheme(c, out)
	case domain.SynthesisConsensus:
		e.consensus(c, out)
	}

	out.SentenceCount = len(out.Sentences)
	if out.SentenceCount == 0 {
		out.Text = ""
	}
	return out, nil
}

func (e *Engine) prepare(docs []domain.Document) *corpus {
	c := &corpus{docs: docs, profiles: make([]themes.Doc, len(docs))}
	for i := range docs {
		c.profiles[i] = themes.Doc{ID: docs[i].ID, Profile: e.norm.Normalize(docs[i].Content)}
	}
	c.weights = themes.Weigh(c.profiles, e.opts.UseIDF)

	for i := range docs {
		for pos, s := range tokens.Sentences(docs[i].Content) {
			toks := e.norm.Tokens(s)
			if len(toks) == 0 {
				continue
			}
			var score float64
			for _, t := range toks {
				score += c.weights[t]
			}
			c.candidates = append(c.candidates, candidate{
				ExtractedSentence: domain.ExtractedSentence{
					Text:       s,
					DocumentID: docs[i].ID,
					Title:      displayTitle(&docs[i]),
					Score:      score / math.Sqrt(float64(len(toks))),
					Position:   pos,
				},
				doc:    i,
				tokens: toks,
			})
		}
	}
	return c
}

func (e *Engine) summary(c *corpus, out *domain.Synthesis) {
	picked := top(c.candidates, e.opts.Sentences, func(x candidate) float64 { return x.Score })
	sourceOrder(picked)

	lines := make([]string, len(picked))
	for i, p := range picked {
		out.Sentences = append(out.Sentences, p.ExtractedSentence)
		lines[i] = fmt.Sprintf("[%s] %s", p.Title, p.Text)
	}
	out.Text = strings.Join(lines, "\n")
}

func (e *Engine) comparison(c *corpus, out *domain.Synthesis) {
	var b strings.Builder
	for i := range c.docs {
		var own []candidate
		for _, cand := range c.candidates {
			if cand.doc == i {
				own = append(own, cand)
			}
		}
		picked := top(own, keyPointsPerDocument, func(x candidate) float64 { return x.Score })
		sourceOrder(picked)

		kp := domain.KeyPoints{
			DocumentID:  c.docs[i].ID,
			Title:       displayTitle(&c.docs[i]),
			Distinctive: distinctive(c, i, 1-i),
		}
		fmt.Fprintf(&b, "[%s]\n", kp.Title)
		for _, p := range picked {
			kp.Sentences = append(kp.Sentences, p.ExtractedSentence)
			out.Sentences = append(out.Sentences, p.ExtractedSentence)
			fmt.Fprintf(&b, "- %s\n", p.Text)
		}
		if len(kp.Distinctive) > 0 {
			fmt.Fprintf(&b, "Distinctive: %s\n", strings.Join(kp.Distinctive, ", "))
		}
		out.KeyPoints = append(out.KeyPoints, kp)
	}

	out.SharedTerms = sharedTerms(c, len(c.docs))
	if len(out.SharedTerms) > 0 {
		fmt.Fprintf(&b, "Shared: %s\n", strings.Join(out.SharedTerms, ", "))
	}
	out.Text = strings.TrimRight(b.String(), "\n")
}

func (e *Engine) byTheme(c *corpus, out *domain.Synthesis) {
	res := themes.New(themes.Options{Max: themeLines, UseIDF: e.opts.UseIDF}).Extract(c.profiles)
	out.Themes = res.Themes

	var lines []string
	used := make(map[string]bool)
	for _, th := range res.Themes {
		best, ok := representative(c.candidates, th.Terms, used)
		if !ok {
			continue
		}
		used[key(best)] = true
		out.Sentences = append(out.Sentences, best.ExtractedSentence)
		lines = append(lines, fmt.Sprintf("%s: %s [%s]", th.Label, best.Text, best.Title))
	}
	out.Text = strings.Join(lines, "\n")
}

func (e *Engine) consensus(c *corpus, out *domain.Synthesis) {
	support := make(map[string]int)
	for _, p := range c.profiles {
		for term := range p.Profile.Counts {
			support[term]++
		}
	}

	n := float64(len(c.docs) - 1)
	scored := make([]candidate, 0, len(c.candidates))
	for _, cand := range c.candidates {
		distinct := make(map[string]struct{}, len(cand.tokens))
		var agree float64
		for _, t := range cand.tokens {
			if _, ok := distinct[t]; ok {
				continue
			}
			distinct[t] = struct{}{}
			agree += float64(support[t] - 1)
		}
		if agree == 0 {
			continue
		}
		cand.Score = agree / (n * math.Sqrt(float64(len(cand.tokens))))
		scored = append(scored, cand)
	}

	picked := top(scored, e.opts.Sentences, func(x candidate) float64 { return x.Score })
	sourceOrder(picked)
	lines := make([]string, len(picked))
	for i, p := range picked {
		out.Sentences = append(out.Sentences, p.ExtractedSentence)
		lines[i] = fmt.Sprintf("[%s] %s", p.Title, p.Text)
	}
	out.SharedTerms = sharedTerms(c, majority(len(c.docs)))
	out.Text = strings.Join(lines, "\n")
}

// top selects the n highest-scoring candidates; ties keep source order.
func top(cands []candidate, n int, score func(candidate) float64) []candidate {
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sourceOrder(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].doc != cands[j].doc {
			return cands[i].doc < cands[j].doc
		}
		return cands[i].Position < cands[j].Position
	})
}

// representative returns the best unused sentence containing any of terms.
func representative(cands []candidate, terms []string, used map[string]bool) (candidate, bool) {
	want := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		want[t] = struct{}{}
	}
	var best candidate
	found := false
	for _, cand := range cands {
		if used[key(cand)] {
			continue
		}
		for _, t := range cand.tokens {
			if _, ok := want[t]; ok {
				if !found || cand.Score > best.Score {
					best, found = cand, true
				}
				break
			}
		}
	}
	return best, found
}

// distinctive lists the heaviest terms of doc a absent from doc b.
func distinctive(c *corpus, a, b int) []string {
	var out []string
	for _, w := range c.weights.Ranked() {
		if len(out) == termListLimit/2 {
			break
		}
		if c.profiles[a].Profile.Counts[w.Term] > 0 && c.profiles[b].Profile.Counts[w.Term] == 0 {
			out = append(out, w.Term)
		}
	}
	return out
}

// sharedTerms lists the heaviest terms present in at least minDocs documents.
func sharedTerms(c *corpus, minDocs int) []string {
	var out []string
	for _, w := range c.weights.Ranked() {
		if len(out) == termListLimit {
			break
		}
		n := 0
		for _, p := range c.profiles {
			if p.Profile.Counts[w.Term] > 0 {
				n++
			}
		}
		if n >= minDocs && n >= 2 {
			out = append(out, w.Term)
		}
	}
	return out
}

func majority(n int) int {
	return n/2 + 1
}

func key(c candidate) string {
	return fmt.Sprintf("%d/%d", c.doc, c.Position)
}

func displayTitle(d *domain.Document) string {
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}
