package domain

import "time"

// RawDocument is a file read from disk before normalisation.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g. "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// GroupPath is the group the file belongs to, derived from its directory.
	GroupPath string

	// ModTime is the file modification time.
	ModTime time.Time
}

// ChangeType represents the type of file change seen by a watcher.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the change name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ImportResult summarises an import run.
type ImportResult struct {
	Root     string
	Imported int
	Updated  int
	Skipped  int
	Removed  int

	// Failures maps file paths to the reason they could not be imported.
	Failures map[string]string
}

// RawDocumentChange is a change event emitted by a watched document source.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected file. Content is empty for deletions.
	Document RawDocument
}
