package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/docgraph/internal/analysis/timeline"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure TrendService implements the interface.
var _ driving.TrendService = (*TrendService)(nil)

const (
	opTrackEvolution = "track_topic_evolution"
	opIdentifyTrends = "identify_trends"
)

// TrendService tracks topics over time.
type TrendService struct {
	store    driven.DocumentStore
	settings driving.SettingsService
}

// NewTrendService creates a new trend service.
func NewTrendService(store driven.DocumentStore, settings driving.SettingsService) *TrendService {
	return &TrendService{store: store, settings: settings}
}

// TrackTopicEvolution buckets the documents mentioning the topic by period.
func (s *TrendService) TrackTopicEvolution(ctx context.Context, req domain.EvolutionRequest) (*domain.TopicEvolution, error) {
	log := logger.Start(opTrackEvolution)

	if strings.TrimSpace(req.Topic) == "" {
		return nil, invalid(opTrackEvolution, "topic", req.Topic, "topic is required")
	}
	g, ok := domain.ParseGranularity(string(req.Range.Granularity))
	if !ok {
		return nil, invalid(opTrackEvolution, "granularity", req.Range.Granularity, "unknown granularity")
	}
	req.Range.Granularity = g
	if req.MaxDocuments < 0 {
		return nil, invalid(opTrackEvolution, "max_documents", req.MaxDocuments, "must not be negative")
	}
	e, err := loadEngine(opTrackEvolution, s.settings)
	if err != nil {
		return nil, err
	}

	loader := newCorpusLoader(log, s.store, ceiling(e.settings.MaxDocuments, req.MaxDocuments))
	docs, err := loader.query(ctx, "", domain.SearchConstraints{})
	if err != nil {
		return nil, err
	}

	evo, err := s.tracker(e).Track(req.Topic, docs, req.Range, req.FillGaps)
	if err != nil {
		return nil, wrap(opTrackEvolution, "topic", req.Topic, err)
	}
	log.Done("%q: %d buckets (%s), %d matching documents",
		req.Topic, len(evo.Buckets), evo.Granularity, evo.MatchedDocuments)
	return evo, nil
}

// IdentifyTrends reports terms whose weight rose or fell between two periods.
func (s *TrendService) IdentifyTrends(ctx context.Context, req domain.TrendRequest) (*domain.TrendReport, error) {
	log := logger.Start(opIdentifyTrends)

	g, ok := domain.ParseGranularity(string(req.Granularity))
	if !ok {
		return nil, invalid(opIdentifyTrends, "granularity", req.Granularity, "unknown granularity")
	}
	if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold > 1) {
		return nil, invalid(opIdentifyTrends, "threshold", *req.Threshold, "must be in [0,1]")
	}
	if req.Limit < 0 {
		return nil, invalid(opIdentifyTrends, "limit", req.Limit, "must not be negative")
	}
	e, err := loadEngine(opIdentifyTrends, s.settings)
	if err != nil {
		return nil, err
	}

	group := domain.CleanGroupPath(req.Group)
	if group != "" {
		if err := s.checkGroup(ctx, group); err != nil {
			return nil, err
		}
	}

	loader := newCorpusLoader(log, s.store, e.settings.MaxDocuments)
	docs, err := loader.query(ctx, "", domain.SearchConstraints{Group: group})
	if err != nil {
		return nil, err
	}

	threshold := e.settings.Timeline.TrendThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	report, err := s.tracker(e).Trends(docs, timeline.TrendOptions{
		Granularity:    g,
		PreviousPeriod: req.PreviousPeriod,
		CurrentPeriod:  req.CurrentPeriod,
		Threshold:      threshold,
		Limit:          req.Limit,
	})
	if err != nil {
		return nil, wrap(opIdentifyTrends, "documents", "", err)
	}
	log.Done("%s -> %s: %d terms", report.PreviousPeriod, report.CurrentPeriod, len(report.Trends))
	return report, nil
}

func (s *TrendService) checkGroup(ctx context.Context, group string) error {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return upstream(opIdentifyTrends, "group", group, err)
	}
	if _, ok := domain.FindGroup(groups, group); !ok {
		return domain.NewOpError(opIdentifyTrends, domain.ErrNotFound, "group", group, nil)
	}
	return nil
}

func (s *TrendService) tracker(e *engine) *timeline.Tracker {
	return timeline.New(e.norm, timeline.Options{
		MaxBuckets: e.settings.Timeline.MaxBuckets,
		Normalize:  e.settings.Timeline.Normalize,
		UseIDF:     e.settings.Themes.UseIDF,
	})
}
