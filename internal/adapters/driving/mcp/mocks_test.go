package mcp

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// mockGraphService is a mock implementation of driving.GraphService.
type mockGraphService struct {
	graph       *domain.KnowledgeGraph
	path        *domain.PathResult
	connections []domain.Connection
	err         error

	graphReq domain.GraphRequest
	pathReq  domain.PathRequest
	connReq  domain.ConnectionsRequest
}

func (m *mockGraphService) BuildKnowledgeGraph(_ context.Context, req domain.GraphRequest) (*domain.KnowledgeGraph, error) {
	m.graphReq = req
	return m.graph, m.err
}

func (m *mockGraphService) FindShortestPath(_ context.Context, req domain.PathRequest) (*domain.PathResult, error) {
	m.pathReq = req
	return m.path, m.err
}

func (m *mockGraphService) FindConnections(_ context.Context, req domain.ConnectionsRequest) ([]domain.Connection, error) {
	m.connReq = req
	return m.connections, m.err
}

// mockClusterService is a mock implementation of driving.ClusterService.
type mockClusterService struct {
	result *domain.ClusterResult
	err    error
	req    domain.ClusterRequest
}

func (m *mockClusterService) DetectKnowledgeClusters(_ context.Context, req domain.ClusterRequest) (*domain.ClusterResult, error) {
	m.req = req
	return m.result, m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	comparison *domain.DocumentComparison
	matrix     *domain.SimilarityMatrix
	themes     *domain.ThemeResult
	synthesis  *domain.Synthesis
	analysis   *domain.DocumentAnalysis
	err        error

	ids  []string
	mode domain.SynthesisMode
}

func (m *mockAnalysisService) CompareDocuments(_ context.Context, id1, id2 string) (*domain.DocumentComparison, error) {
	m.ids = []string{id1, id2}
	return m.comparison, m.err
}

func (m *mockAnalysisService) AnalyzeDocumentSimilarity(_ context.Context, ids []string) (*domain.SimilarityMatrix, error) {
	m.ids = ids
	return m.matrix, m.err
}

func (m *mockAnalysisService) ExtractThemes(_ context.Context, ids []string) (*domain.ThemeResult, error) {
	m.ids = ids
	return m.themes, m.err
}

func (m *mockAnalysisService) SynthesizeDocuments(_ context.Context, ids []string, mode domain.SynthesisMode) (*domain.Synthesis, error) {
	m.ids = ids
	m.mode = mode
	return m.synthesis, m.err
}

func (m *mockAnalysisService) AnalyzeDocument(_ context.Context, id string) (*domain.DocumentAnalysis, error) {
	m.ids = []string{id}
	return m.analysis, m.err
}

// mockTrendService is a mock implementation of driving.TrendService.
type mockTrendService struct {
	evolution *domain.TopicEvolution
	report    *domain.TrendReport
	err       error

	evoReq   domain.EvolutionRequest
	trendReq domain.TrendRequest
}

func (m *mockTrendService) TrackTopicEvolution(_ context.Context, req domain.EvolutionRequest) (*domain.TopicEvolution, error) {
	m.evoReq = req
	return m.evolution, m.err
}

func (m *mockTrendService) IdentifyTrends(_ context.Context, req domain.TrendRequest) (*domain.TrendReport, error) {
	m.trendReq = req
	return m.report, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	results  []domain.DocumentSummary
	groups   []domain.Group
	err      error

	query       string
	constraints domain.SearchConstraints
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Search(
	_ context.Context,
	query string,
	constraints domain.SearchConstraints,
) ([]domain.DocumentSummary, error) {
	m.query = query
	m.constraints = constraints
	return m.results, m.err
}

func (m *mockDocumentService) ListGroups(_ context.Context) ([]domain.Group, error) {
	return m.groups, m.err
}

// testPorts returns ports backed by empty mocks.
func testPorts() *Ports {
	return &Ports{
		Graph:    &mockGraphService{},
		Cluster:  &mockClusterService{},
		Analysis: &mockAnalysisService{},
		Trend:    &mockTrendService{},
		Document: &mockDocumentService{},
	}
}
