package domain

import (
	"errors"
	"fmt"
)

// SimilaritySettings holds the weights of the similarity signals.
type SimilaritySettings struct {
	// ContentWeight weights cosine similarity of token profiles.
	ContentWeight float64

	// TagWeight weights Jaccard similarity of tag sets.
	TagWeight float64

	// RecencyWeight weights timestamp proximity.
	RecencyWeight float64

	// StructureWeight weights group path equality. Zero disables the signal.
	StructureWeight float64

	// RecencyHorizonDays is the distance at which recency proximity reaches 0.
	RecencyHorizonDays int
}

// GraphSettings holds knowledge graph defaults.
type GraphSettings struct {
	MaxDepth      int
	EdgeThreshold float64

	// PathMaxDepth caps the expansion used for shortest-path queries.
	// Zero expands the start document's whole component.
	PathMaxDepth int
}

// ClusterSettings holds cluster detection defaults.
type ClusterSettings struct {
	MinSize   int
	Threshold float64
}

// ThemeSettings holds theme extraction defaults.
type ThemeSettings struct {
	// Max truncates both themes and top words.
	Max int

	// UseIDF scales term frequency by smoothed inverse document frequency.
	UseIDF bool
}

// TimelineSettings holds topic evolution and trend defaults.
type TimelineSettings struct {
	// MaxBuckets bounds the window to the most recent periods.
	MaxBuckets int

	// Normalize divides bucket scores by the bucket's document count.
	Normalize bool

	// TrendThreshold is the minimum absolute weight delta for a trend.
	TrendThreshold float64
}

// EngineSettings holds every tunable of the analytics engine.
type EngineSettings struct {
	// Stem enables light suffix stemming in the text normaliser.
	Stem bool

	// MaxDocuments is the corpus-size ceiling per operation.
	MaxDocuments int

	// Workers bounds the pairwise worker pool (0 = GOMAXPROCS).
	Workers int

	Similarity SimilaritySettings
	Graph      GraphSettings
	Cluster    ClusterSettings
	Themes     ThemeSettings

	// SynthesisSentences is the number of sentences selected in summary mode.
	SynthesisSentences int

	Timeline TimelineSettings
}

// DefaultEngineSettings returns settings with the documented defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Stem:         false,
		MaxDocuments: 300,
		Workers:      0,
		Similarity: SimilaritySettings{
			ContentWeight:      0.6,
			TagWeight:          0.3,
			RecencyWeight:      0.1,
			StructureWeight:    0,
			RecencyHorizonDays: 365,
		},
		Graph: GraphSettings{
			MaxDepth:      3,
			EdgeThreshold: 0.3,
			PathMaxDepth:  0,
		},
		Cluster: ClusterSettings{
			MinSize:   3,
			Threshold: 0.35,
		},
		Themes: ThemeSettings{
			Max:    20,
			UseIDF: true,
		},
		SynthesisSentences: 5,
		Timeline: TimelineSettings{
			MaxBuckets:     24,
			Normalize:      true,
			TrendThreshold: 0.2,
		},
	}
}

// ErrInvalidSettings is returned by EngineSettings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks every tunable is within range.
func (s EngineSettings) Validate() error {
	var errs []error
	check := func(ok bool, key string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s out of range: %v", ErrInvalidSettings, key, v))
		}
	}
	unit := func(f float64) bool { return f >= 0 && f <= 1 }

	check(s.MaxDocuments >= 2, "engine.max_documents", s.MaxDocuments)
	check(s.Workers >= 0, "engine.workers", s.Workers)
	check(s.Similarity.ContentWeight >= 0, "similarity.content_weight", s.Similarity.ContentWeight)
	check(s.Similarity.TagWeight >= 0, "similarity.tag_weight", s.Similarity.TagWeight)
	check(s.Similarity.RecencyWeight >= 0, "similarity.recency_weight", s.Similarity.RecencyWeight)
	check(s.Similarity.StructureWeight >= 0, "similarity.structure_weight", s.Similarity.StructureWeight)
	check(s.Similarity.ContentWeight+s.Similarity.TagWeight+s.Similarity.RecencyWeight+s.Similarity.StructureWeight > 0,
		"similarity weights", "sum must be positive")
	check(s.Similarity.RecencyHorizonDays >= 1, "similarity.recency_horizon_days", s.Similarity.RecencyHorizonDays)
	check(s.Graph.MaxDepth >= 1, "graph.max_depth", s.Graph.MaxDepth)
	check(s.Graph.EdgeThreshold > 0 && s.Graph.EdgeThreshold <= 1, "graph.edge_threshold", s.Graph.EdgeThreshold)
	check(s.Graph.PathMaxDepth >= 0, "graph.path_max_depth", s.Graph.PathMaxDepth)
	check(s.Cluster.MinSize >= 1, "cluster.min_size", s.Cluster.MinSize)
	check(s.Cluster.Threshold > 0 && s.Cluster.Threshold <= 1, "cluster.threshold", s.Cluster.Threshold)
	check(s.Themes.Max >= 1, "themes.max", s.Themes.Max)
	check(s.SynthesisSentences >= 1, "synthesis.sentences", s.SynthesisSentences)
	check(s.Timeline.MaxBuckets >= 2, "timeline.max_buckets", s.Timeline.MaxBuckets)
	check(unit(s.Timeline.TrendThreshold), "trends.threshold", s.Timeline.TrendThreshold)

	return errors.Join(errs...)
}
