// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml under the docgraph home directory
// (~/.docgraph, or $DOCGRAPH_HOME when set). Nested tables are flattened
// to dot keys such as "graph.max_depth".
package file
