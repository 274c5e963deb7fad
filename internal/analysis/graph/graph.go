// Package graph builds weighted, undirected document graphs and answers
// shortest-path queries over them.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Edge validation errors.
var (
	ErrSelfEdge      = errors.New("self edge")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrUnknownNode   = errors.New("unknown node")
	ErrWeightRange   = errors.New("edge weight outside (0,1]")
)

// Graph is an undirected graph with at most one edge per node pair.
// Nodes remember the order in which they were added.
type Graph struct {
	nodes []domain.GraphNode
	order map[string]int
	adj   map[string]map[string]float64
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		order: make(map[string]int),
		adj:   make(map[string]map[string]float64),
	}
}

// AddNode adds a node. It returns false if the node already exists.
func (g *Graph) AddNode(id, title string, depth int) bool {
	if _, ok := g.order[id]; ok {
		return false
	}
	g.order[id] = len(g.nodes)
	g.nodes = append(g.nodes, domain.GraphNode{ID: id, Title: title, Depth: depth})
	g.adj[id] = make(map[string]float64)
	return true
}

// AddEdge connects two existing nodes.
func (g *Graph) AddEdge(a, b string, weight float64) error {
	if a == b {
		return fmt.Errorf("%w: %s", ErrSelfEdge, a)
	}
	if !(weight > 0 && weight <= 1) {
		return fmt.Errorf("%w: %v", ErrWeightRange, weight)
	}
	for _, id := range []string{a, b} {
		if _, ok := g.order[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	if _, ok := g.adj[a][b]; ok {
		return fmt.Errorf("%w: %s-%s", ErrDuplicateEdge, a, b)
	}
	g.adj[a][b] = weight
	g.adj[b][a] = weight
	g.edges++
	return nil
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.order[id]
	return ok
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (domain.GraphNode, bool) {
	i, ok := g.order[id]
	if !ok {
		return domain.GraphNode{}, false
	}
	return g.nodes[i], true
}

// Weight returns the weight of the edge between two nodes.
func (g *Graph) Weight(a, b string) (float64, bool) {
	w, ok := g.adj[a][b]
	return w, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns the nodes in discovery order.
func (g *Graph) Nodes() []domain.GraphNode {
	out := make([]domain.GraphNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Neighbors returns the neighbours of a node in discovery order.
func (g *Graph) Neighbors(id string) []string {
	out := make([]string, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return g.order[out[i]] < g.order[out[j]] })
	return out
}

// Edges returns every edge once, with Source < Target, sorted by (Source, Target).
func (g *Graph) Edges() []domain.GraphEdge {
	out := make([]domain.GraphEdge, 0, g.edges)
	for a, ns := range g.adj {
		for b, w := range ns {
			if a < b {
				out = append(out, domain.GraphEdge{Source: a, Target: b, Weight: w, Type: domain.EdgeTypeSimilarity})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
