package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// AnalysisService compares, summarises and inspects documents.
type AnalysisService interface {
	// CompareDocuments scores two documents and lists what they share.
	CompareDocuments(ctx context.Context, id1, id2 string) (*domain.DocumentComparison, error)

	// AnalyzeDocumentSimilarity compares every pair of the given documents.
	AnalyzeDocumentSimilarity(ctx context.Context, ids []string) (*domain.SimilarityMatrix, error)

	// ExtractThemes derives ranked themes and top words.
	ExtractThemes(ctx context.Context, ids []string) (*domain.ThemeResult, error)

	// SynthesizeDocuments produces an extractive synthesis.
	SynthesizeDocuments(ctx context.Context, ids []string, mode domain.SynthesisMode) (*domain.Synthesis, error)

	// AnalyzeDocument computes readability statistics for one document.
	AnalyzeDocument(ctx context.Context, id string) (*domain.DocumentAnalysis, error)
}

// TrendService tracks topics over time.
type TrendService interface {
	// TrackTopicEvolution buckets documents mentioning a topic by period.
	TrackTopicEvolution(ctx context.Context, req domain.EvolutionRequest) (*domain.TopicEvolution, error)

	// IdentifyTrends reports terms rising or falling between two periods.
	IdentifyTrends(ctx context.Context, req domain.TrendRequest) (*domain.TrendReport, error)
}
