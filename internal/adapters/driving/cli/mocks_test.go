package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

type mockGraphService struct {
	graph       *domain.KnowledgeGraph
	path        *domain.PathResult
	connections []domain.Connection
	err         error
	graphReq    domain.GraphRequest
	pathReq     domain.PathRequest
	connReq     domain.ConnectionsRequest
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

type mockClusterService struct {
	result *domain.ClusterResult
	err    error
	req    domain.ClusterRequest
}

func (m *mockClusterService) DetectKnowledgeClusters(_ context.Context, req domain.ClusterRequest) (*domain.ClusterResult, error) {
	m.req = req
	return m.result, m.err
}

type mockAnalysisService struct {
	comparison *domain.DocumentComparison
	matrix     *domain.SimilarityMatrix
	themes     *domain.ThemeResult
	synthesis  *domain.Synthesis
	analysis   *domain.DocumentAnalysis
	err        error
	ids        []string
	mode       domain.SynthesisMode
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

type mockTrendService struct {
	evolution *domain.TopicEvolution
	report    *domain.TrendReport
	err       error
	evoReq    domain.EvolutionRequest
	trendReq  domain.TrendRequest
}

func (m *mockTrendService) TrackTopicEvolution(_ context.Context, req domain.EvolutionRequest) (*domain.TopicEvolution, error) {
	m.evoReq = req
	return m.evolution, m.err
}

func (m *mockTrendService) IdentifyTrends(_ context.Context, req domain.TrendRequest) (*domain.TrendReport, error) {
	m.trendReq = req
	return m.report, m.err
}

type mockDocumentService struct {
	document    *domain.Document
	results     []domain.DocumentSummary
	groups      []domain.Group
	err         error
	query       string
	constraints domain.SearchConstraints
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Search(_ context.Context, query string, c domain.SearchConstraints) ([]domain.DocumentSummary, error) {
	m.query = query
	m.constraints = c
	return m.results, m.err
}

func (m *mockDocumentService) ListGroups(_ context.Context) ([]domain.Group, error) {
	return m.groups, m.err
}

type mockImportService struct {
	result  *domain.ImportResult
	err     error
	root    string
	changes []domain.RawDocumentChange
	watched bool
}

func (m *mockImportService) Import(_ context.Context, root string) (*domain.ImportResult, error) {
	m.root = root
	return m.result, m.err
}

func (m *mockImportService) Watch(_ context.Context, _ string, onChange func(domain.RawDocumentChange, error)) error {
	m.watched = true
	for _, c := range m.changes {
		onChange(c, nil)
	}
	return nil
}

type mockSettingsService struct {
	values map[string]string
	keys   []string
	err    error
	set    [2]string
}

func (m *mockSettingsService) Get() (*domain.EngineSettings, error) {
	s := domain.DefaultEngineSettings()
	return &s, m.err
}

func (m *mockSettingsService) Save(_ *domain.EngineSettings) error { return m.err }

func (m *mockSettingsService) Set(key, value string) error {
	m.set = [2]string{key, value}
	return m.err
}

func (m *mockSettingsService) Keys() []string { return m.keys }

func (m *mockSettingsService) Values() (map[string]string, error) { return m.values, m.err }

func (m *mockSettingsService) GetDefaults() domain.EngineSettings { return domain.DefaultEngineSettings() }

func (m *mockSettingsService) Path() string { return "/tmp/docgraph/config.toml" }

// setupTestServices installs s and returns a function restoring the
// previous state.
func setupTestServices(s *Services) func() {
	prevFactory := factory
	factory = nil
	SetServices(s)
	return func() {
		SetServices(nil)
		factory = prevFactory
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
