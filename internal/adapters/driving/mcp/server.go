package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgraph/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// MetricsPath is where HTTP mode serves Prometheus metrics.
const MetricsPath = "/metrics"

// Server is the MCP server for docgraph.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	metrics *Metrics
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docgraph",
		Version: Version,
	}

	s := &Server{
		ports:   ports,
		server:  mcp.NewServer(impl, nil),
		metrics: NewMetrics(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Metrics returns the tool metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP handler: streamable MCP at the root and
// Prometheus metrics at MetricsPath.
func (s *Server) Handler() http.Handler {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, s.metrics.Handler())
	mux.Handle("/", mcpHandler)
	return mux
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("MCP server listening on %s (metrics at %s)", addr, MetricsPath)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// toolHandler is the handler shape shared by every tool.
type toolHandler[In any] func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Envelope, error)

// addTool registers a tool whose calls are logged and counted.
func addTool[In any](s *Server, name, description string, h toolHandler[In]) {
	mcp.AddTool(s.server, &mcp.Tool{Name: name, Description: description}, instrument(s.metrics, name, h))
}

// instrument records the outcome and latency of every call of h.
func instrument[In any](
	m *Metrics,
	name string,
	h toolHandler[In],
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Envelope, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Envelope, error) {
		start := time.Now()
		res, env, err := h(ctx, req, input)
		code := "OK"
		if env.Error != nil {
			code = env.Error.Code
			logger.Warn("%s failed: %s", name, env.Error.Message)
		}
		elapsed := time.Since(start)
		logger.Debug("%s: %s in %v", name, code, elapsed)
		m.observe(name, code, elapsed)
		return res, env, err
	}
}
