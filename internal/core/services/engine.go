package services

import (
	"github.com/custodia-labs/docgraph/internal/analysis/pairwise"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/analysis/themes"
	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// engine bundles the analysis components configured from one settings
// snapshot. A new engine is built for every operation.
type engine struct {
	settings domain.EngineSettings
	norm     *tokens.Normalizer
	scorer   *similarity.Scorer
	pool     *pairwise.Pool
	themes   *themes.Extractor
}

func newEngine(settings domain.EngineSettings) *engine {
	return &engine{
		settings: settings,
		norm:     tokens.New(settings.Stem),
		scorer:   similarity.NewScorer(similarity.WeightsFromSettings(settings.Similarity)),
		pool:     pairwise.New(settings.Workers),
		themes: themes.New(themes.Options{
			Max:    settings.Themes.Max,
			UseIDF: settings.Themes.UseIDF,
		}),
	}
}

// loadEngine reads the current settings, falling back to the defaults when
// no settings service is configured.
func loadEngine(op string, settings driving.SettingsService) (*engine, error) {
	if settings == nil {
		return newEngine(domain.DefaultEngineSettings()), nil
	}
	s, err := settings.Get()
	if err != nil {
		return nil, wrap(op, "settings", "", err)
	}
	return newEngine(*s), nil
}

// index profiles docs with the engine's normaliser.
func (e *engine) index(docs []domain.Document) *similarity.Index {
	return similarity.NewIndex(docs, e.norm)
}

// item profiles a single document.
func (e *engine) item(doc *domain.Document) *similarity.Item {
	return similarity.NewItem(doc, e.norm.Normalize(similarity.DocumentText(doc)))
}

// profiles returns the theme input for docs, in order.
func (e *engine) profiles(docs []domain.Document) []themes.Doc {
	out := make([]themes.Doc, len(docs))
	for i := range docs {
		out[i] = themes.Doc{ID: docs[i].ID, Profile: e.norm.Normalize(similarity.DocumentText(&docs[i]))}
	}
	return out
}
