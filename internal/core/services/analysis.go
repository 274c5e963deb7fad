package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docgraph/internal/analysis/readability"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/analysis/synthesis"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

const (
	opCompareDocuments  = "compare_documents"
	opAnalyzeSimilarity = "analyze_document_similarity"
	opExtractThemes     = "extract_themes"
	opSynthesize        = "synthesize_documents"
	opAnalyzeDocument   = "analyze_document"
)

// AnalysisService compares, summarises and measures documents.
type AnalysisService struct {
	store    driven.DocumentStore
	settings driving.SettingsService
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(store driven.DocumentStore, settings driving.SettingsService) *AnalysisService {
	return &AnalysisService{store: store, settings: settings}
}

// CompareDocuments scores two documents and lists the words, tags and title
// overlap they share.
func (s *AnalysisService) CompareDocuments(ctx context.Context, id1, id2 string) (*domain.DocumentComparison, error) {
	log := logger.Start(opCompareDocuments)

	e, err := loadEngine(opCompareDocuments, s.settings)
	if err != nil {
		return nil, err
	}
	loader := newCorpusLoader(log, s.store, e.settings.MaxDocuments)
	d1, err := loader.get(ctx, "document_id_1", id1)
	if err != nil {
		return nil, err
	}
	d2, err := loader.get(ctx, "document_id_2", id2)
	if err != nil {
		return nil, err
	}

	cmp := compare(e, e.item(d1), e.item(d2))
	log.Done("similarity(%s, %s) = %.3f", d1.ID, d2.ID, cmp.Similarity)
	return &cmp, nil
}

// AnalyzeDocumentSimilarity compares every pair of the given documents. The
// comparisons follow the order of ids.
func (s *AnalysisService) AnalyzeDocumentSimilarity(ctx context.Context, ids []string) (*domain.SimilarityMatrix, error) {
	log := logger.Start(opAnalyzeSimilarity)

	if len(ids) < 2 {
		return nil, domain.NewOpError(opAnalyzeSimilarity, domain.ErrInsufficientData, "document_ids",
			fmt.Sprint(len(ids)), fmt.Errorf("at least 2 documents are required"))
	}
	e, err := loadEngine(opAnalyzeSimilarity, s.settings)
	if err != nil {
		return nil, err
	}
	docs, err := newCorpusLoader(log, s.store, e.settings.MaxDocuments).
		ids(ctx, "document_ids", ids)
	if err != nil {
		return nil, err
	}

	items := make([]*similarity.Item, len(docs))
	for i := range docs {
		items[i] = e.item(&docs[i])
	}
	pairs, err := e.pool.All(ctx, len(items), func(i, j int) domain.SimilarityBreakdown {
		return e.scorer.Score(items[i], items[j])
	})
	if err != nil {
		return nil, wrap(opAnalyzeSimilarity, "document_ids", "", err)
	}

	matrix := &domain.SimilarityMatrix{
		DocumentIDs: append([]string(nil), ids...),
		Comparisons: make([]domain.DocumentComparison, 0, len(pairs)),
	}
	var total float64
	best := -1
	for _, p := range pairs {
		cmp := comparison(items[p.I], items[p.J], p.Breakdown)
		matrix.Comparisons = append(matrix.Comparisons, cmp)
		total += cmp.Similarity
		if best < 0 || cmp.Similarity > matrix.Comparisons[best].Similarity {
			best = len(matrix.Comparisons) - 1
		}
	}
	if best >= 0 {
		most := matrix.Comparisons[best]
		matrix.MostSimilar = &most
		matrix.AverageSimilarity = total / float64(len(matrix.Comparisons))
	}
	log.Done("%d comparisons, average %.3f", len(matrix.Comparisons), matrix.AverageSimilarity)
	return matrix, nil
}

// ExtractThemes derives ranked themes and top words from the documents.
func (s *AnalysisService) ExtractThemes(ctx context.Context, ids []string) (*domain.ThemeResult, error) {
	log := logger.Start(opExtractThemes)

	if len(ids) == 0 {
		return nil, domain.NewOpError(opExtractThemes, domain.ErrInsufficientData, "document_ids", "0", nil)
	}
	e, err := loadEngine(opExtractThemes, s.settings)
	if err != nil {
		return nil, err
	}
	docs, err := newCorpusLoader(log, s.store, e.settings.MaxDocuments).
		ids(ctx, "document_ids", ids)
	if err != nil {
		return nil, err
	}

	result := e.themes.Extract(e.profiles(docs))
	log.Done("%d themes, %d top words", len(result.Themes), len(result.TopWords))
	return &result, nil
}

// SynthesizeDocuments produces an extractive synthesis. An empty mode
// selects summary.
func (s *AnalysisService) SynthesizeDocuments(ctx context.Context, ids []string, mode domain.SynthesisMode) (*domain.Synthesis, error) {
	log := logger.Start(opSynthesize)

	parsed, ok := domain.ParseSynthesisMode(string(mode))
	if !ok {
		return nil, invalid(opSynthesize, "synthesis_type", mode, "unknown synthesis mode")
	}
	if len(ids) == 0 {
		return nil, domain.NewOpError(opSynthesize, domain.ErrInsufficientData, "document_ids", "0", nil)
	}
	e, err := loadEngine(opSynthesize, s.settings)
	if err != nil {
		return nil, err
	}
	docs, err := newCorpusLoader(log, s.store, e.settings.MaxDocuments).
		ids(ctx, "document_ids", ids)
	if err != nil {
		return nil, err
	}

	engine := synthesis.New(e.norm, synthesis.Options{
		Sentences: e.settings.SynthesisSentences,
		UseIDF:    e.settings.Themes.UseIDF,
	})
	out, err := engine.Synthesize(docs, parsed)
	if err != nil {
		return nil, wrap(opSynthesize, "synthesis_type", string(parsed), err)
	}
	log.Done("%s: %d sentences from %d documents", out.Mode, out.SentenceCount, out.SourceCount)
	return out, nil
}

// AnalyzeDocument computes readability statistics for one document.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, id string) (*domain.DocumentAnalysis, error) {
	log := logger.Start(opAnalyzeDocument)

	e, err := loadEngine(opAnalyzeDocument, s.settings)
	if err != nil {
		return nil, err
	}
	doc, err := newCorpusLoader(log, s.store, e.settings.MaxDocuments).get(ctx, "document_id", id)
	if err != nil {
		return nil, err
	}
	analysis := readability.New(e.norm).Analyze(doc)
	log.Done("%s: %d words", doc.ID, analysis.WordCount)
	return analysis, nil
}

func compare(e *engine, a, b *similarity.Item) domain.DocumentComparison {
	return comparison(a, b, e.scorer.Score(a, b))
}

func comparison(a, b *similarity.Item, breakdown domain.SimilarityBreakdown) domain.DocumentComparison {
	return domain.DocumentComparison{
		Document1:       a.Doc.ID,
		Document2:       b.Doc.ID,
		Title1:          a.Doc.Title,
		Title2:          b.Doc.Title,
		Similarity:      breakdown.Score,
		Breakdown:       breakdown,
		TitleSimilarity: similarity.TitleSimilarity(a.Doc.Title, b.Doc.Title),
		CommonWords:     similarity.CommonTerms(a, b, commonTermLimit),
		CommonWordCount: similarity.CommonTermCount(a, b),
		CommonTags:      similarity.CommonTags(a, b),
	}
}
