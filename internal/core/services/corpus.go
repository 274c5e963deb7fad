package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// corpusLoader fetches the documents of one operation from the store.
// Each document is fetched at most once per loader.
type corpusLoader struct {
	op    string
	log   *logger.Op
	store driven.DocumentStore
	limit int
	cache map[string]*domain.Document
}

func newCorpusLoader(log *logger.Op, store driven.DocumentStore, limit int) *corpusLoader {
	return &corpusLoader{
		op:    log.Name(),
		log:   log,
		store: store,
		limit: limit,
		cache: make(map[string]*domain.Document),
	}
}

// get fetches a single document.
func (l *corpusLoader) get(ctx context.Context, param, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid(l.op, param, id, "document id is required")
	}
	if doc, ok := l.cache[id]; ok {
		return doc, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.CancelledError(l.op, err)
	}

	doc, err := l.store.GetDocument(ctx, id)
	switch {
	case err == nil && doc == nil:
		return nil, domain.NewOpError(l.op, domain.ErrNotFound, param, id, nil)
	case err == nil:
		l.cache[id] = doc
		return doc, nil
	case domain.IsContextError(err) || errors.Is(err, domain.ErrCancelled):
		return nil, domain.CancelledError(l.op, err)
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewOpError(l.op, domain.ErrNotFound, param, id, nil)
	default:
		l.log.Warn("fetch %s failed: %v", id, err)
		return nil, domain.NewOpError(l.op, domain.ErrUpstreamUnavailable, param, id, err)
	}
}

// ids fetches the listed documents in order. Duplicates are rejected.
func (l *corpusLoader) ids(ctx context.Context, param string, ids []string) ([]domain.Document, error) {
	if len(ids) > l.limit {
		return nil, domain.NewOpError(l.op, domain.ErrTooManyDocuments, param, fmt.Sprint(len(ids)),
			fmt.Errorf("limit is %d", l.limit))
	}
	seen := make(map[string]struct{}, len(ids))
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, invalid(l.op, param, id, "duplicate document id")
		}
		seen[id] = struct{}{}
		doc, err := l.get(ctx, param, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// query fetches every document matching query and constraints. More than
// limit matches fails with ErrTooManyDocuments rather than truncating.
func (l *corpusLoader) query(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.CancelledError(l.op, err)
	}
	constraints.Limit = l.limit + 1

	summaries, err := l.store.Search(ctx, query, constraints)
	if err != nil {
		l.log.Warn("search %q failed: %v", query, err)
		return nil, upstream(l.op, "query", query, err)
	}
	if len(summaries) > l.limit {
		return nil, domain.NewOpError(l.op, domain.ErrTooManyDocuments, "query", query,
			fmt.Errorf("more than %d documents match", l.limit))
	}
	l.log.Debug("query %q matched %d documents", query, len(summaries))

	docs := make([]domain.Document, 0, len(summaries))
	for _, s := range summaries {
		doc, err := l.get(ctx, "query", s.ID)
		if err != nil {
			// A summary whose document vanished since the search is skipped.
			if errors.Is(err, domain.ErrNotFound) {
				l.log.Warn("document %s disappeared during load", s.ID)
				continue
			}
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// withDocument returns docs with doc appended unless already present.
func withDocument(docs []domain.Document, doc *domain.Document) []domain.Document {
	for i := range docs {
		if docs[i].ID == doc.ID {
			return docs
		}
	}
	return append(docs, *doc)
}

// ceiling returns the effective corpus ceiling: the configured maximum, or a
// lower positive override.
func ceiling(configured, override int) int {
	if override > 0 && override < configured {
		return override
	}
	return configured
}
