package domain

import (
	"strings"
	"time"
)

// Granularity is the width of a timeline bucket.
type Granularity string

// Supported granularities.
const (
	GranularityAuto  Granularity = "auto"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity parses a granularity name. Empty selects auto.
func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GranularityAuto, true
	case GranularityAuto, GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return g, true
	default:
		return "", false
	}
}

// TimeRange bounds a timeline query. Zero Start or End leaves that side open.
type TimeRange struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Contains reports whether t lies within the range (inclusive).
func (r TimeRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// TimelineBucket groups documents falling into one period.
type TimelineBucket struct {
	// Label is the human-readable period (e.g. "January 2024").
	Label string

	// Start is the inclusive period start (UTC).
	Start time.Time

	// End is the exclusive period end (UTC).
	End time.Time

	DocumentIDs []string

	// Score is the aggregate topic weight of the bucket's documents.
	Score float64

	TopTerms []WeightedTerm
}

// TopicEvolution is the result of tracking a topic over time.
type TopicEvolution struct {
	Topic       string
	TopicTerms  []string
	Granularity Granularity
	Buckets     []TimelineBucket

	// MatchedDocuments is the number of documents that mention the topic.
	MatchedDocuments int
}

// EvolutionRequest configures topic tracking.
type EvolutionRequest struct {
	Topic string
	Range TimeRange

	// FillGaps emits empty buckets for periods without documents.
	FillGaps bool

	// MaxDocuments overrides the corpus ceiling when > 0 and lower.
	MaxDocuments int
}

// TrendDirection tags a trend.
type TrendDirection string

// Trend directions.
const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
)

// Trend is a term whose weight changed significantly between two periods.
type Trend struct {
	Term      string
	Direction TrendDirection
	Previous  float64
	Current   float64
	Delta     float64
}

// TrendReport is the result of trend identification.
type TrendReport struct {
	Granularity Granularity

	// PreviousPeriod and CurrentPeriod are the compared bucket labels.
	PreviousPeriod string
	CurrentPeriod  string

	Threshold float64
	Trends    []Trend

	DocumentCount int
}

// TrendRequest configures trend identification.
type TrendRequest struct {
	// Group limits the corpus to a group path ("" = all documents).
	Group string

	Granularity Granularity

	// PreviousPeriod and CurrentPeriod select a bucket pair by label.
	// Both empty selects the two most recent buckets.
	PreviousPeriod string
	CurrentPeriod  string

	// Threshold overrides the configured significance threshold when set.
	// Zero reports every change.
	Threshold *float64

	// Limit caps the number of reported trends (0 = all).
	Limit int
}

// ParseDate parses YYYY-MM-DD or RFC 3339. A bare date used as an end
// bound covers the whole day. Empty input yields the zero time.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
