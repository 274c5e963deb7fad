// Package timeline buckets documents by period to track how topics evolve
// and which terms are rising or falling.
package timeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/custodia-labs/docgraph/internal/analysis/themes"
	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	// DefaultMaxBuckets bounds the window to the most recent periods.
	DefaultMaxBuckets = 24

	// DefaultThreshold is the minimum absolute weight change of a trend.
	DefaultThreshold = 0.2

	bucketTopTerms = 5
	trendTerms     = 50
)

// Options configures the tracker.
type Options struct {
	MaxBuckets int

	// Normalize divides bucket scores by the bucket's document count.
	Normalize bool

	UseIDF bool
}

// Tracker buckets documents over time.
type Tracker struct {
	norm *tokens.Normalizer
	opts Options
}

// New creates a tracker.
func New(n *tokens.Normalizer, opts Options) *Tracker {
	if opts.MaxBuckets <= 0 {
		opts.MaxBuckets = DefaultMaxBuckets
	}
	return &Tracker{norm: n, opts: opts}
}

type dated struct {
	doc     *domain.Document
	profile domain.TokenProfile
	stamp   time.Time
}

// Track buckets the documents mentioning topic. Documents without a
// timestamp or outside the range are ignored. Buckets are strictly
// increasing in time; empty periods appear only when fill is set.
func (tr *Tracker) Track(topic string, docs []domain.Document, r domain.TimeRange, fill bool) (*domain.TopicEvolution, error) {
	terms := unique(tr.norm.Tokens(topic))
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: topic %q has no searchable terms", domain.ErrInvalidArgument, topic)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: range end precedes start", domain.ErrInvalidArgument)
	}

	var matched []dated
	for _, d := range tr.dated(docs) {
		if !r.Contains(d.stamp) {
			continue
		}
		for _, t := range terms {
			if d.profile.Counts[t] > 0 {
				matched = append(matched, d)
				break
			}
		}
	}

	g := tr.granularity(r, matched)
	evo := &domain.TopicEvolution{
		Topic:            topic,
		TopicTerms:       terms,
		Granularity:      g,
		MatchedDocuments: len(matched),
		Buckets:          []domain.TimelineBucket{},
	}
	if len(matched) == 0 {
		return evo, nil
	}

	weights := themes.Weigh(profiles(matched), tr.opts.UseIDF)
	buckets := tr.bucket(matched, g, func(d dated) float64 {
		var s float64
		for _, t := range terms {
			s += float64(d.profile.Counts[t]) * weights[t]
		}
		return s
	})
	if fill {
		buckets = fillGaps(buckets, g)
	}
	evo.Buckets = tr.window(buckets)
	return evo, nil
}

// TrendOptions selects the compared periods.
type TrendOptions struct {
	Granularity domain.Granularity

	// PreviousPeriod and CurrentPeriod are bucket labels. Both empty
	// selects the two most recent buckets.
	PreviousPeriod string
	CurrentPeriod  string

	Threshold float64
	Limit     int
}

// Trends compares normalised term weights of two periods and reports the
// terms whose weight changed by more than the threshold. A zero threshold
// reports every change.
func (tr *Tracker) Trends(docs []domain.Document, opts TrendOptions) (*domain.TrendReport, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be in [0,1], got %v", domain.ErrInvalidArgument, opts.Threshold)
	}
	all := tr.dated(docs)
	g := opts.Granularity
	if g == "" || g == domain.GranularityAuto {
		g = tr.granularity(domain.TimeRange{}, all)
	}
	report := &domain.TrendReport{Granularity: g, Threshold: opts.Threshold, Trends: []domain.Trend{}}

	byPeriod := make(map[time.Time][]dated)
	for _, d := range all {
		start := Truncate(d.stamp, g)
		byPeriod[start] = append(byPeriod[start], d)
	}
	starts := make([]time.Time, 0, len(byPeriod))
	for s := range byPeriod {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	if len(starts) < 2 {
		return nil, fmt.Errorf("%w: trends need documents in at least 2 periods, found %d", domain.ErrInsufficientData, len(starts))
	}

	prev, cur := starts[len(starts)-2], starts[len(starts)-1]
	if opts.PreviousPeriod != "" || opts.CurrentPeriod != "" {
		var err error
		if prev, err = periodStart(opts.PreviousPeriod, g); err != nil {
			return nil, err
		}
		if cur, err = periodStart(opts.CurrentPeriod, g); err != nil {
			return nil, err
		}
		if !prev.Before(cur) {
			return nil, fmt.Errorf("%w: previous period must precede current period", domain.ErrInvalidArgument)
		}
	}
	report.PreviousPeriod = Label(prev, g)
	report.CurrentPeriod = Label(cur, g)
	report.DocumentCount = len(byPeriod[prev]) + len(byPeriod[cur])

	before := themes.Weigh(profiles(byPeriod[prev]), tr.opts.UseIDF)
	after := themes.Weigh(profiles(byPeriod[cur]), tr.opts.UseIDF)

	candidates := make(map[string]struct{})
	for _, w := range [...]themes.Weights{before, after} {
		for _, t := range w.Top(trendTerms) {
			candidates[t.Term] = struct{}{}
		}
	}
	for term := range candidates {
		delta := after[term] - before[term]
		if math.Abs(delta) <= opts.Threshold {
			continue
		}
		dir := domain.TrendRising
		if delta < 0 {
			dir = domain.TrendFalling
		}
		report.Trends = append(report.Trends, domain.Trend{
			Term:      term,
			Direction: dir,
			Previous:  before[term],
			Current:   after[term],
			Delta:     delta,
		})
	}
	sort.Slice(report.Trends, func(i, j int) bool {
		a, b := math.Abs(report.Trends[i].Delta), math.Abs(report.Trends[j].Delta)
		if a != b {
			return a > b
		}
		return report.Trends[i].Term < report.Trends[j].Term
	})
	if opts.Limit > 0 && len(report.Trends) > opts.Limit {
		report.Trends = report.Trends[:opts.Limit]
	}
	return report, nil
}

func periodStart(label string, g domain.Granularity) (time.Time, error) {
	start, pg, err := ParsePeriod(label)
	if err != nil {
		return time.Time{}, err
	}
	if pg != g {
		return time.Time{}, fmt.Errorf("%w: period %q is not a %s", domain.ErrInvalidArgument, label, g)
	}
	return start, nil
}

func (tr *Tracker) dated(docs []domain.Document) []dated {
	out := make([]dated, 0, len(docs))
	for i := range docs {
		d := &docs[i]
		if !d.HasTimestamp() {
			continue
		}
		out = append(out, dated{doc: d, profile: tr.norm.Normalize(d.Title + "\n\n" + d.Content), stamp: d.Timestamp().UTC()})
	}
	return out
}

func (tr *Tracker) granularity(r domain.TimeRange, docs []dated) domain.Granularity {
	if r.Granularity != "" && r.Granularity != domain.GranularityAuto {
		return r.Granularity
	}
	start, end := r.Start, r.End
	for _, d := range docs {
		if start.IsZero() || (r.Start.IsZero() && d.stamp.Before(start)) {
			start = d.stamp
		}
		if end.IsZero() || (r.End.IsZero() && d.stamp.After(end)) {
			end = d.stamp
		}
	}
	return AutoGranularity(end.Sub(start))
}

func (tr *Tracker) bucket(docs []dated, g domain.Granularity, score func(dated) float64) []domain.TimelineBucket {
	grouped := make(map[time.Time][]dated)
	for _, d := range docs {
		start := Truncate(d.stamp, g)
		grouped[start] = append(grouped[start], d)
	}

	buckets := make([]domain.TimelineBucket, 0, len(grouped))
	for start, members := range grouped {
		b := domain.TimelineBucket{
			Label: Label(start, g),
			Start: start,
			End:   Next(start, g),
		}
		for _, d := range members {
			b.DocumentIDs = append(b.DocumentIDs, d.doc.ID)
			b.Score += score(d)
		}
		if tr.opts.Normalize {
			b.Score /= float64(len(members))
		}
		sort.Strings(b.DocumentIDs)
		b.TopTerms = themes.Weigh(profiles(members), tr.opts.UseIDF).Top(bucketTopTerms)
		buckets = append(buckets, b)
	}
	sorted, _ := SortBuckets(buckets)
	return sorted
}

// window keeps the most recent MaxBuckets periods.
func (tr *Tracker) window(buckets []domain.TimelineBucket) []domain.TimelineBucket {
	if len(buckets) > tr.opts.MaxBuckets {
		return buckets[len(buckets)-tr.opts.MaxBuckets:]
	}
	return buckets
}

// fillGaps inserts empty buckets between sorted buckets.
func fillGaps(buckets []domain.TimelineBucket, g domain.Granularity) []domain.TimelineBucket {
	if len(buckets) < 2 {
		return buckets
	}
	out := make([]domain.TimelineBucket, 0, len(buckets))
	for i, b := range buckets {
		if i > 0 {
			for s := Next(buckets[i-1].Start, g); s.Before(b.Start); s = Next(s, g) {
				out = append(out, domain.TimelineBucket{Label: Label(s, g), Start: s, End: Next(s, g)})
			}
		}
		out = append(out, b)
	}
	return out
}

func profiles(docs []dated) []themes.Doc {
	out := make([]themes.Doc, len(docs))
	for i, d := range docs {
		out[i] = themes.Doc{ID: d.doc.ID, Profile: d.profile}
	}
	return out
}

func unique(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, t := range terms {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
