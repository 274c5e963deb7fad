package driving

import "github.com/custodia-labs/docgraph/internal/core/domain"

// SettingsService manages engine settings.
type SettingsService interface {
	// Get retrieves current settings, with defaults for unset keys.
	Get() (*domain.EngineSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.EngineSettings) error

	// Set parses and stores a single key (e.g. "graph.max_depth").
	Set(key, value string) error

	// Keys returns every supported key in display order.
	Keys() []string

	// Values renders the current value of every key.
	Values() (map[string]string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.EngineSettings

	// Path returns the configuration file path.
	Path() string
}
