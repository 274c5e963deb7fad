// Package domain defines the core entities of docgraph.
//
// This package is the innermost layer of the hexagonal architecture.
// It defines the fundamental types:
//
//   - Document: a read-only copy of a stored document
//   - TokenProfile: normalised term frequencies of a text
//   - KnowledgeGraph, Cluster, ThemeEntry, TimelineBucket: analysis results
//   - EngineSettings: every tunable with its default
//   - OperationError: the typed error returned by engine operations
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
