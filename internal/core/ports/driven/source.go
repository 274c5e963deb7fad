package driven

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// DocumentSource reads raw files from a directory tree.
type DocumentSource interface {
	// Root returns the directory being read.
	Root() string

	// Walk emits every visible file under the root. Both channels are
	// closed when the walk finishes or ctx is cancelled.
	Walk(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch emits file changes until ctx is cancelled or Close is called.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases watcher resources. It is safe to call more than once.
	Close() error
}

// DocumentSourceFactory opens a DocumentSource for a directory. It returns
// domain.ErrInvalidArgument when root is not a readable directory.
type DocumentSourceFactory func(root string) (DocumentSource, error)
