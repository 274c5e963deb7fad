// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docgraph. It exposes the analysis engine as tools and the document store
// as resources, so AI assistants can explore a local knowledge base.
package mcp

import "errors"

var (
	// ErrMissingGraphService is returned when the graph service is not provided.
	ErrMissingGraphService = errors.New("mcp: graph service is required")

	// ErrMissingClusterService is returned when the cluster service is not provided.
	ErrMissingClusterService = errors.New("mcp: cluster service is required")

	// ErrMissingAnalysisService is returned when the analysis service is not provided.
	ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

	// ErrMissingTrendService is returned when the trend service is not provided.
	ErrMissingTrendService = errors.New("mcp: trend service is required")
)
