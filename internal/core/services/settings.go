package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStem               = "engine.stem"
	keyMaxDocuments       = "engine.max_documents"
	keyWorkers            = "engine.workers"
	keyContentWeight      = "similarity.content_weight"
	keyTagWeight          = "similarity.tag_weight"
	keyRecencyWeight      = "similarity.recency_weight"
	keyStructureWeight    = "similarity.structure_weight"
	keyRecencyHorizonDays = "similarity.recency_horizon_days"
	keyGraphMaxDepth      = "graph.max_depth"
	keyGraphThreshold     = "graph.edge_threshold"
	keyPathMaxDepth       = "graph.path_max_depth"
	keyClusterMinSize     = "cluster.min_size"
	keyClusterThreshold   = "cluster.threshold"
	keyThemesMax          = "themes.max"
	keyThemesUseIDF       = "themes.use_idf"
	keySynthesisSentences = "synthesis.sentences"
	keyTimelineMaxBuckets = "timeline.max_buckets"
	keyTimelineNormalize  = "timeline.normalize"
	keyTrendsThreshold    = "trends.threshold"
)

// setting binds a config key to a field of EngineSettings.
type setting struct {
	key string
	ptr func(s *domain.EngineSettings) any
}

// settingsTable lists every key in display order.
var settingsTable = []setting{
	{keyStem, func(s *domain.EngineSettings) any { return &s.Stem }},
	{keyMaxDocuments, func(s *domain.EngineSettings) any { return &s.MaxDocuments }},
	{keyWorkers, func(s *domain.EngineSettings) any { return &s.Workers }},
	{keyContentWeight, func(s *domain.EngineSettings) any { return &s.Similarity.ContentWeight }},
	{keyTagWeight, func(s *domain.EngineSettings) any { return &s.Similarity.TagWeight }},
	{keyRecencyWeight, func(s *domain.EngineSettings) any { return &s.Similarity.RecencyWeight }},
	{keyStructureWeight, func(s *domain.EngineSettings) any { return &s.Similarity.StructureWeight }},
	{keyRecencyHorizonDays, func(s *domain.EngineSettings) any { return &s.Similarity.RecencyHorizonDays }},
	{keyGraphMaxDepth, func(s *domain.EngineSettings) any { return &s.Graph.MaxDepth }},
	{keyGraphThreshold, func(s *domain.EngineSettings) any { return &s.Graph.EdgeThreshold }},
	{keyPathMaxDepth, func(s *domain.EngineSettings) any { return &s.Graph.PathMaxDepth }},
	{keyClusterMinSize, func(s *domain.EngineSettings) any { return &s.Cluster.MinSize }},
	{keyClusterThreshold, func(s *domain.EngineSettings) any { return &s.Cluster.Threshold }},
	{keyThemesMax, func(s *domain.EngineSettings) any { return &s.Themes.Max }},
	{keyThemesUseIDF, func(s *domain.EngineSettings) any { return &s.Themes.UseIDF }},
	{keySynthesisSentences, func(s *domain.EngineSettings) any { return &s.SynthesisSentences }},
	{keyTimelineMaxBuckets, func(s *domain.EngineSettings) any { return &s.Timeline.MaxBuckets }},
	{keyTimelineNormalize, func(s *domain.EngineSettings) any { return &s.Timeline.Normalize }},
	{keyTrendsThreshold, func(s *domain.EngineSettings) any { return &s.Timeline.TrendThreshold }},
}

// SettingsService manages engine settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current engine settings. Unset keys take their defaults.
func (s *SettingsService) Get() (*domain.EngineSettings, error) {
	settings := domain.DefaultEngineSettings()
	if s.configStore == nil {
		return &settings, nil
	}

	for _, st := range settingsTable {
		if _, exists := s.configStore.Get(st.key); !exists {
			continue
		}
		switch p := st.ptr(&settings).(type) {
		case *bool:
			*p = s.configStore.GetBool(st.key)
		case *int:
			*p = s.configStore.GetInt(st.key)
		case *float64:
			*p = s.configStore.GetFloat(st.key)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("load settings from %s: %w", s.Path(), err)
	}
	return &settings, nil
}

// Save validates and persists engine settings.
func (s *SettingsService) Save(settings *domain.EngineSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidSettings)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if s.configStore == nil {
		return fmt.Errorf("save settings: no config store")
	}

	for _, st := range settingsTable {
		var value any
		switch p := st.ptr(settings).(type) {
		case *bool:
			value = *p
		case *int:
			value = *p
		case *float64:
			value = *p
		}
		if err := s.configStore.Set(st.key, value); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set parses value for key and saves the resulting settings.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSettings, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch p := st.ptr(settings).(type) {
	case *bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects a boolean, got %q", domain.ErrInvalidSettings, key, value)
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidSettings, key, value)
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidSettings, key, value)
		}
		*p = v
	}

	return s.Save(settings)
}

// Keys returns every supported key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// Values renders the current value of every key.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(settingsTable))
	for _, st := range settingsTable {
		values[st.key], _ = Value(settings, st.key)
	}
	return values, nil
}

// Value renders the value of key in settings.
func Value(settings *domain.EngineSettings, key string) (string, bool) {
	st, ok := lookupSetting(key)
	if !ok {
		return "", false
	}
	switch p := st.ptr(settings).(type) {
	case *bool:
		return strconv.FormatBool(*p), true
	case *int:
		return strconv.Itoa(*p), true
	case *float64:
		return strconv.FormatFloat(*p, 'g', -1, 64), true
	}
	return "", false
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

func lookupSetting(key string) (setting, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}
