package mcp

import (
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	Graph    driving.GraphService
	Cluster  driving.ClusterService
	Analysis driving.AnalysisService
	Trend    driving.TrendService

	// Document backs the search tool and the resources. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Graph == nil:
		return ErrMissingGraphService
	case p.Cluster == nil:
		return ErrMissingClusterService
	case p.Analysis == nil:
		return ErrMissingAnalysisService
	case p.Trend == nil:
		return ErrMissingTrendService
	}
	return nil
}
