// Package normalisers turns raw files into documents. Each sub-package
// handles one family of MIME types; the Registry here dispatches to the
// highest-priority normaliser for a file.
package normalisers
