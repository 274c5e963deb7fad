// Package cli implements the docgraph command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Services are the driving ports the commands call.
type Services struct {
	Graph    driving.GraphService
	Cluster  driving.ClusterService
	Analysis driving.AnalysisService
	Trend    driving.TrendService
	Document driving.DocumentService
	Import   driving.ImportService
	Settings driving.SettingsService

	// Close releases the resources behind the services. Optional.
	Close func() error
}

// ServiceFactory opens the services for a data directory. An empty
// directory selects the default.
type ServiceFactory func(dataDir string) (*Services, error)

// skipServices marks commands that run without opening the store.
const skipServices = "skip-services"

var (
	version = "dev"

	// Global flags.
	verbose    bool
	dataDir    string
	jsonOutput bool

	factory ServiceFactory

	graphService    driving.GraphService
	clusterService  driving.ClusterService
	analysisService driving.AnalysisService
	trendService    driving.TrendService
	documentService driving.DocumentService
	importService   driving.ImportService
	settingsService driving.SettingsService
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "docgraph",
	Short: "Document knowledge graph and analytics",
	Long: `docgraph imports documents into a local store and analyses how they relate:
knowledge graphs, shortest paths, clusters, themes, extractive synthesis,
readability and topic trends over time.

Every analysis is also available to AI assistants through 'docgraph mcp serve'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $DOCGRAPH_HOME or ~/.docgraph)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which long-running
// commands such as import --watch and mcp serve honour.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory sets how commands open their services.
func SetServiceFactory(f ServiceFactory) {
	factory = f
}

// SetServices installs already opened services. Commands then skip the
// factory.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	graphService = s.Graph
	clusterService = s.Cluster
	analysisService = s.Analysis
	trendService = s.Trend
	documentService = s.Document
	importService = s.Import
	settingsService = s.Settings
	closeServices = s.Close
}

func servicesReady() bool {
	return graphService != nil || settingsService != nil || documentService != nil
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipServices] != "" || servicesReady() || factory == nil {
		return nil
	}

	s, err := factory(dataDir)
	if err != nil {
		return fmt.Errorf("opening data directory: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// errNotConfigured reports a command whose service was not wired.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}

// setInt returns v when the flag was given on the command line, else nil
// so the service applies its default.
func setInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// setFloat is setInt for float flags.
func setFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
