// Package resilient wraps a document store with rate limiting and a single
// retry with backoff. Failures that survive the retry are reported as
// domain.ErrUpstreamUnavailable.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/logger"
)

const (
	// DefaultRate is the sustained call rate (calls per second).
	DefaultRate = 1000

	// DefaultBurst is the number of calls allowed at once.
	DefaultBurst = 100

	// DefaultBackoff is the pause before the retry.
	DefaultBackoff = 100 * time.Millisecond
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Options configures the wrapper. Zero values select the defaults; a
// negative Rate disables rate limiting.
type Options struct {
	Rate    float64
	Burst   int
	Backoff time.Duration
}

// Store is a rate-limited, retrying driven.DocumentStore.
type Store struct {
	inner   driven.DocumentStore
	limiter *rate.Limiter
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// New wraps inner.
func New(inner driven.DocumentStore, opts Options) *Store {
	if opts.Rate == 0 {
		opts.Rate = DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	limit := rate.Limit(opts.Rate)
	if opts.Rate < 0 {
		limit = rate.Inf
	}
	return &Store{
		inner:   inner,
		limiter: rate.NewLimiter(limit, opts.Burst),
		backoff: opts.Backoff,
		sleep:   sleep,
	}
}

// GetDocument retrieves a document, retrying once on transient failure.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc *domain.Document
	err := s.call(ctx, "get document "+id, func() error {
		var err error
		doc, err = s.inner.GetDocument(ctx, id)
		return err
	})
	return doc, err
}

// Search runs a search, retrying once on transient failure.
func (s *Store) Search(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.DocumentSummary, error) {
	var res []domain.DocumentSummary
	err := s.call(ctx, "search", func() error {
		var err error
		res, err = s.inner.Search(ctx, query, constraints)
		return err
	})
	return res, err
}

// ListGroups lists groups, retrying once on transient failure.
func (s *Store) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := s.call(ctx, "list groups", func() error {
		var err error
		groups, err = s.inner.ListGroups(ctx)
		return err
	})
	return groups, err
}

func (s *Store) call(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying %s after %v: %v", what, s.backoff, err)
			if serr := s.sleep(ctx, s.backoff); serr != nil {
				return serr
			}
		}
		if werr := s.limiter.Wait(ctx); werr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// The wait would outlast the deadline.
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, werr)
		}
		err = fn()
		if !retryable(err) {
			return err
		}
	}
	logger.Warn("%s failed after retry: %v", what, err)
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, what, err)
}

// retryable reports whether err may be transient.
func retryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidArgument),
		domain.IsContextError(err):
		return false
	default:
		return true
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
