package services

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

const (
	opImport = "import"
	opWatch  = "watch"
)

// ImportService loads files from disk into the document store.
type ImportService struct {
	store    driven.ReadWriteStore
	factory  driven.DocumentSourceFactory
	registry driven.NormaliserRegistry
}

// NewImportService creates a new import service.
func NewImportService(
	store driven.ReadWriteStore,
	factory driven.DocumentSourceFactory,
	registry driven.NormaliserRegistry,
) *ImportService {
	return &ImportService{
		store:    store,
		factory:  factory,
		registry: registry,
	}
}

// DocumentID derives the stable document ID of a file URI.
func DocumentID(uri string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String()
}

// Import walks root and stores every supported file. Documents previously
// imported from root whose files no longer exist are removed. Files that
// fail to normalise are recorded in the result and do not abort the import.
func (s *ImportService) Import(ctx context.Context, root string) (*domain.ImportResult, error) {
	log := logger.Start(opImport)

	source, err := s.open(opImport, root)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	known, err := s.store.ListURIs(ctx, uriPrefix(source.Root()))
	if err != nil {
		return nil, upstream(opImport, "root", root, err)
	}

	result := &domain.ImportResult{Root: source.Root(), Failures: make(map[string]string)}
	seen := make(map[string]bool)

	docsCh, errsCh := source.Walk(ctx)
	for docsCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, domain.CancelledError(opImport, ctx.Err())
		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			result.Failures[failurePath(err)] = err.Error()
		case raw, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			log.Debug("processing %s", raw.URI)
			id := DocumentID(raw.URI)
			seen[id] = true
			_, existed := known[id]

			if err := s.apply(ctx, &raw); err != nil {
				if errors.Is(err, domain.ErrUnsupportedType) {
					log.Debug("skipping %s: %v", raw.URI, err)
					result.Skipped++
					continue
				}
				if domain.IsContextError(err) {
					return nil, domain.CancelledError(opImport, err)
				}
				log.Warn("failed %s: %v", raw.URI, err)
				result.Failures[raw.URI] = err.Error()
				continue
			}
			if existed {
				result.Updated++
			} else {
				result.Imported++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.CancelledError(opImport, err)
	}
	for id, uri := range known {
		if seen[id] {
			continue
		}
		if err := s.store.DeleteDocument(ctx, id); err != nil {
			result.Failures[uri] = err.Error()
			continue
		}
		log.Debug("removed %s", uri)
		result.Removed++
	}

	log.Done("%d new, %d updated, %d removed, %d skipped, %d failed",
		result.Imported, result.Updated, result.Removed, result.Skipped, len(result.Failures))
	return result, nil
}

// Watch applies file changes under root until ctx is cancelled. Each change
// is reported through onChange together with the error applying it, if any.
func (s *ImportService) Watch(ctx context.Context, root string, onChange func(domain.RawDocumentChange, error)) error {
	source, err := s.open(opWatch, root)
	if err != nil {
		return err
	}
	defer source.Close()

	changes, err := source.Watch(ctx)
	if err != nil {
		return wrap(opWatch, "root", root, err)
	}
	log := logger.Start(opWatch)
	log.Info("watching %s", source.Root())

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			var applyErr error
			switch change.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				log.Debug("processing %s", change.Document.URI)
				applyErr = s.apply(ctx, &change.Document)
			case domain.ChangeDeleted:
				log.Debug("deleting %s", change.Document.URI)
				applyErr = s.store.DeleteDocument(ctx, DocumentID(change.Document.URI))
			}
			if onChange != nil {
				onChange(change, applyErr)
			}
		}
	}
}

func (s *ImportService) open(op, root string) (driven.DocumentSource, error) {
	if strings.TrimSpace(root) == "" {
		return nil, invalid(op, "root", root, "directory is required")
	}
	if s.factory == nil {
		return nil, invalid(op, "root", root, "no document source configured")
	}
	source, err := s.factory(root)
	if err != nil {
		return nil, wrap(op, "root", root, err)
	}
	return source, nil
}

// apply normalises raw and saves the resulting document.
func (s *ImportService) apply(ctx context.Context, raw *domain.RawDocument) error {
	if s.registry == nil {
		return domain.ErrUnsupportedType
	}
	res, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return err
	}

	doc := res.Document
	doc.ID = DocumentID(raw.URI)
	doc.URI = raw.URI
	if doc.GroupPath == "" {
		doc.GroupPath = raw.GroupPath
	}
	doc.GroupPath = domain.CleanGroupPath(doc.GroupPath)
	if doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = raw.ModTime
	}
	if doc.Title == "" {
		base := filepath.Base(raw.URI)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s.store.SaveDocument(ctx, &doc)
}

func uriPrefix(root string) string {
	return strings.TrimSuffix(root, string(filepath.Separator)) + string(filepath.Separator)
}

func failurePath(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return err.Error()
}
