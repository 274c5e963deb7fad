package mcp

import (
	"time"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// JSON views of domain results. Field names are snake_case to match the
// tool arguments.

type nodeView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

type edgeView struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

type graphView struct {
	Seed          string     `json:"seed"`
	MaxDepth      int        `json:"max_depth"`
	DepthReached  int        `json:"depth_reached"`
	EdgeThreshold float64    `json:"edge_threshold"`
	CorpusSize    int        `json:"corpus_size"`
	NodeCount     int        `json:"node_count"`
	EdgeCount     int        `json:"edge_count"`
	Nodes         []nodeView `json:"nodes"`
	Edges         []edgeView `json:"edges"`
}

func newGraphView(kg *domain.KnowledgeGraph) graphView {
	v := graphView{
		Seed:          kg.Seed,
		MaxDepth:      kg.MaxDepth,
		DepthReached:  kg.DepthReached,
		EdgeThreshold: kg.EdgeThreshold,
		CorpusSize:    kg.CorpusSize,
		NodeCount:     len(kg.Nodes),
		EdgeCount:     len(kg.Edges),
		Nodes:         make([]nodeView, len(kg.Nodes)),
		Edges:         make([]edgeView, len(kg.Edges)),
	}
	for i, n := range kg.Nodes {
		v.Nodes[i] = nodeView{ID: n.ID, Title: n.Title, Depth: n.Depth}
	}
	for i, e := range kg.Edges {
		v.Edges[i] = edgeView{Source: e.Source, Target: e.Target, Weight: e.Weight, Type: e.Type}
	}
	return v
}

type pathView struct {
	From         string   `json:"from_id"`
	To           string   `json:"to_id"`
	Connected    bool     `json:"connected"`
	DepthLimited bool     `json:"depth_limited"`
	Path         []string `json:"path"`
	Titles       []string `json:"titles"`
	Hops         int      `json:"hops"`
	Cost         float64  `json:"cost"`
}

func newPathView(r *domain.PathResult) pathView {
	return pathView{
		From:         r.Start,
		To:           r.Target,
		Connected:    r.Connected,
		DepthLimited: r.DepthLimited,
		Path:         nonNil(r.Path),
		Titles:       nonNil(r.Titles),
		Hops:         r.Hops(),
		Cost:         r.Cost,
	}
}

type breakdownView struct {
	Score     float64  `json:"score"`
	Content   *float64 `json:"content,omitempty"`
	Tags      *float64 `json:"tags,omitempty"`
	Recency   *float64 `json:"recency,omitempty"`
	Structure *float64 `json:"structure,omitempty"`
}

// newBreakdownView omits signals that did not contribute to the score.
func newBreakdownView(b domain.SimilarityBreakdown) breakdownView {
	v := breakdownView{Score: b.Score}
	if b.ContentApplied {
		v.Content = &b.Content
	}
	if b.TagsApplied {
		v.Tags = &b.Tags
	}
	if b.RecencyApplied {
		v.Recency = &b.Recency
	}
	if b.StructureApplied {
		v.Structure = &b.Structure
	}
	return v
}

type connectionView struct {
	DocumentID  string        `json:"document_id"`
	Title       string        `json:"title"`
	Similarity  float64       `json:"similarity"`
	Breakdown   breakdownView `json:"breakdown"`
	CommonTags  []string      `json:"common_tags"`
	CommonTerms []string      `json:"common_terms"`
}

type connectionsView struct {
	DocumentID  string           `json:"document_id"`
	Count       int              `json:"count"`
	Connections []connectionView `json:"connections"`
}

func newConnectionsView(seed string, conns []domain.Connection) connectionsView {
	v := connectionsView{DocumentID: seed, Count: len(conns), Connections: make([]connectionView, len(conns))}
	for i, c := range conns {
		v.Connections[i] = connectionView{
			DocumentID:  c.DocumentID,
			Title:       c.Title,
			Similarity:  c.Similarity,
			Breakdown:   newBreakdownView(c.Breakdown),
			CommonTags:  nonNil(c.CommonTags),
			CommonTerms: nonNil(c.CommonTerms),
		}
	}
	return v
}

type clusterView struct {
	ID       int      `json:"id"`
	Label    string   `json:"label"`
	Size     int      `json:"size"`
	Members  []string `json:"members"`
	Keywords []string `json:"keywords"`
	Cohesion float64  `json:"cohesion"`
}

type clustersView struct {
	DocumentCount  int           `json:"document_count"`
	MinClusterSize int           `json:"min_cluster_size"`
	Threshold      float64       `json:"threshold"`
	Clusters       []clusterView `json:"clusters"`
	Unclustered    []string      `json:"unclustered"`
}

func newClustersView(r *domain.ClusterResult) clustersView {
	v := clustersView{
		DocumentCount:  r.DocumentCount,
		MinClusterSize: r.MinClusterSize,
		Threshold:      r.Threshold,
		Clusters:       make([]clusterView, len(r.Clusters)),
		Unclustered:    nonNil(r.Unclustered),
	}
	for i, c := range r.Clusters {
		v.Clusters[i] = clusterView{
			ID:       c.ID,
			Label:    c.Label,
			Size:     c.Size(),
			Members:  c.Members,
			Keywords: nonNil(c.Keywords),
			Cohesion: c.Cohesion,
		}
	}
	return v
}

type comparisonView struct {
	DocumentID1     string        `json:"document_id_1"`
	DocumentID2     string        `json:"document_id_2"`
	Title1          string        `json:"title_1"`
	Title2          string        `json:"title_2"`
	Similarity      float64       `json:"similarity"`
	Breakdown       breakdownView `json:"breakdown"`
	TitleSimilarity float64       `json:"title_similarity"`
	CommonWords     []string      `json:"common_words"`
	CommonWordCount int           `json:"common_word_count"`
	CommonTags      []string      `json:"common_tags"`
}

func newComparisonView(c *domain.DocumentComparison) comparisonView {
	return comparisonView{
		DocumentID1:     c.Document1,
		DocumentID2:     c.Document2,
		Title1:          c.Title1,
		Title2:          c.Title2,
		Similarity:      c.Similarity,
		Breakdown:       newBreakdownView(c.Breakdown),
		TitleSimilarity: c.TitleSimilarity,
		CommonWords:     nonNil(c.CommonWords),
		CommonWordCount: c.CommonWordCount,
		CommonTags:      nonNil(c.CommonTags),
	}
}

type matrixView struct {
	DocumentIDs       []string         `json:"document_ids"`
	ComparisonCount   int              `json:"comparison_count"`
	Comparisons       []comparisonView `json:"comparisons"`
	MostSimilar       *comparisonView  `json:"most_similar,omitempty"`
	AverageSimilarity float64          `json:"average_similarity"`
}

func newMatrixView(m *domain.SimilarityMatrix) matrixView {
	v := matrixView{
		DocumentIDs:       m.DocumentIDs,
		ComparisonCount:   len(m.Comparisons),
		Comparisons:       make([]comparisonView, len(m.Comparisons)),
		AverageSimilarity: m.AverageSimilarity,
	}
	for i := range m.Comparisons {
		v.Comparisons[i] = newComparisonView(&m.Comparisons[i])
	}
	if m.MostSimilar != nil {
		best := newComparisonView(m.MostSimilar)
		v.MostSimilar = &best
	}
	return v
}

type termView struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

func newTermViews(terms []domain.WeightedTerm) []termView {
	out := make([]termView, len(terms))
	for i, t := range terms {
		out[i] = termView{Term: t.Term, Weight: t.Weight}
	}
	return out
}

type themeView struct {
	Label       string   `json:"label"`
	Terms       []string `json:"terms"`
	Weight      float64  `json:"weight"`
	DocumentIDs []string `json:"document_ids"`
}

func newThemeViews(themes []domain.ThemeEntry) []themeView {
	out := make([]themeView, len(themes))
	for i, t := range themes {
		out[i] = themeView{Label: t.Label, Terms: t.Terms, Weight: t.Weight, DocumentIDs: nonNil(t.DocumentIDs)}
	}
	return out
}

type themesView struct {
	DocumentCount int         `json:"document_count"`
	Themes        []themeView `json:"themes"`
	TopWords      []termView  `json:"top_words"`
}

type sentenceView struct {
	Text       string  `json:"text"`
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
}

func newSentenceViews(sentences []domain.ExtractedSentence) []sentenceView {
	out := make([]sentenceView, len(sentences))
	for i, s := range sentences {
		out[i] = sentenceView{Text: s.Text, DocumentID: s.DocumentID, Title: s.Title, Score: s.Score}
	}
	return out
}

type keyPointsView struct {
	DocumentID  string         `json:"document_id"`
	Title       string         `json:"title"`
	Sentences   []sentenceView `json:"sentences"`
	Distinctive []string       `json:"distinctive"`
}

type synthesisView struct {
	SynthesisType string          `json:"synthesis_type"`
	Text          string          `json:"text"`
	SourceCount   int             `json:"source_count"`
	SentenceCount int             `json:"sentence_count"`
	Sentences     []sentenceView  `json:"sentences"`
	KeyPoints     []keyPointsView `json:"key_points,omitempty"`
	SharedTerms   []string        `json:"shared_terms,omitempty"`
	Themes        []themeView     `json:"themes,omitempty"`
}

func newSynthesisView(s *domain.Synthesis) synthesisView {
	v := synthesisView{
		SynthesisType: string(s.Mode),
		Text:          s.Text,
		SourceCount:   s.SourceCount,
		SentenceCount: s.SentenceCount,
		Sentences:     newSentenceViews(s.Sentences),
		SharedTerms:   s.SharedTerms,
	}
	for _, kp := range s.KeyPoints {
		v.KeyPoints = append(v.KeyPoints, keyPointsView{
			DocumentID:  kp.DocumentID,
			Title:       kp.Title,
			Sentences:   newSentenceViews(kp.Sentences),
			Distinctive: nonNil(kp.Distinctive),
		})
	}
	if len(s.Themes) > 0 {
		v.Themes = newThemeViews(s.Themes)
	}
	return v
}

type analysisView struct {
	DocumentID            string     `json:"document_id"`
	Title                 string     `json:"title"`
	WordCount             int        `json:"word_count"`
	SentenceCount         int        `json:"sentence_count"`
	CharacterCount        int        `json:"character_count"`
	AverageSentenceLength float64    `json:"average_sentence_length"`
	AverageWordLength     float64    `json:"average_word_length"`
	ComplexWordPercent    float64    `json:"complex_word_percent"`
	ReadabilityScore      float64    `json:"readability_score"`
	ReadabilityLevel      string     `json:"readability_level"`
	ReadingTimeMinutes    float64    `json:"reading_time_minutes"`
	TopTerms              []termView `json:"top_terms"`
	KeySentences          []string   `json:"key_sentences"`
}

func newAnalysisView(a *domain.DocumentAnalysis) analysisView {
	return analysisView{
		DocumentID:            a.DocumentID,
		Title:                 a.Title,
		WordCount:             a.WordCount,
		SentenceCount:         a.SentenceCount,
		CharacterCount:        a.CharacterCount,
		AverageSentenceLength: a.AverageSentenceLength,
		AverageWordLength:     a.AverageWordLength,
		ComplexWordPercent:    a.ComplexWordPercent,
		ReadabilityScore:      a.ReadabilityScore,
		ReadabilityLevel:      string(a.ReadabilityLevel),
		ReadingTimeMinutes:    a.ReadingTimeMinutes,
		TopTerms:              newTermViews(a.TopTerms),
		KeySentences:          nonNil(a.KeySentences),
	}
}

type bucketView struct {
	Period      string     `json:"period"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	DocumentIDs []string   `json:"document_ids"`
	Count       int        `json:"count"`
	Score       float64    `json:"score"`
	TopTerms    []termView `json:"top_terms"`
}

type evolutionView struct {
	Topic            string       `json:"topic"`
	TopicTerms       []string     `json:"topic_terms"`
	Granularity      string       `json:"granularity"`
	MatchedDocuments int          `json:"matched_documents"`
	Timeline         []bucketView `json:"timeline"`
}

func newEvolutionView(e *domain.TopicEvolution) evolutionView {
	v := evolutionView{
		Topic:            e.Topic,
		TopicTerms:       nonNil(e.TopicTerms),
		Granularity:      string(e.Granularity),
		MatchedDocuments: e.MatchedDocuments,
		Timeline:         make([]bucketView, len(e.Buckets)),
	}
	for i, b := range e.Buckets {
		v.Timeline[i] = bucketView{
			Period:      b.Label,
			Start:       b.Start.Format(time.RFC3339),
			End:         b.End.Format(time.RFC3339),
			DocumentIDs: nonNil(b.DocumentIDs),
			Count:       len(b.DocumentIDs),
			Score:       b.Score,
			TopTerms:    newTermViews(b.TopTerms),
		}
	}
	return v
}

type trendView struct {
	Term      string  `json:"term"`
	Direction string  `json:"direction"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
}

type trendsView struct {
	Granularity    string      `json:"granularity"`
	PreviousPeriod string      `json:"previous_period"`
	CurrentPeriod  string      `json:"current_period"`
	Threshold      float64     `json:"threshold"`
	DocumentCount  int         `json:"document_count"`
	Trends         []trendView `json:"trends"`
}

func newTrendsView(r *domain.TrendReport) trendsView {
	v := trendsView{
		Granularity:    string(r.Granularity),
		PreviousPeriod: r.PreviousPeriod,
		CurrentPeriod:  r.CurrentPeriod,
		Threshold:      r.Threshold,
		DocumentCount:  r.DocumentCount,
		Trends:         make([]trendView, len(r.Trends)),
	}
	for i, t := range r.Trends {
		v.Trends[i] = trendView{
			Term:      t.Term,
			Direction: string(t.Direction),
			Previous:  t.Previous,
			Current:   t.Current,
			Delta:     t.Delta,
		}
	}
	return v
}

type summaryView struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Group      string   `json:"group"`
	Modified   string   `json:"modified,omitempty"`
}

func newSummaryView(s domain.DocumentSummary) summaryView {
	v := summaryView{DocumentID: s.ID, Title: s.Title, Tags: nonNil(s.Tags), Group: s.GroupPath}
	ts := s.ModifiedAt
	if ts.IsZero() {
		ts = s.CreatedAt
	}
	if !ts.IsZero() {
		v.Modified = ts.Format(time.RFC3339)
	}
	return v
}

type groupView struct {
	Name          string      `json:"name"`
	Path          string      `json:"path"`
	DocumentCount int         `json:"document_count"`
	Children      []groupView `json:"children,omitempty"`
}

func newGroupViews(groups []domain.Group) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = groupView{Name: g.Name, Path: g.Path, DocumentCount: g.DocumentCount}
		if len(g.Children) > 0 {
			out[i].Children = newGroupViews(g.Children)
		}
	}
	return out
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
