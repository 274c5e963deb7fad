// Package connectors holds document sources. A source walks a root and
// reports raw files for the importer to normalise and store; the
// filesystem package is the only source so far.
package connectors
