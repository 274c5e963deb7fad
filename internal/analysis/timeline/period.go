package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const day = 24 * time.Hour

// AutoGranularity picks a bucket width for a time span.
func AutoGranularity(span time.Duration) domain.Granularity {
	switch {
	case span > 3*365*day:
		return domain.GranularityYear
	case span > 90*day:
		return domain.GranularityMonth
	case span > 14*day:
		return domain.GranularityWeek
	default:
		return domain.GranularityDay
	}
}

// Truncate returns the UTC start of the period containing t. Weeks start on
// Monday (ISO 8601).
func Truncate(t time.Time, g domain.Granularity) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch g {
	case domain.GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the period after the one starting at start.
func Next(start time.Time, g domain.Granularity) time.Time {
	switch g {
	case domain.GranularityYear:
		return start.AddDate(1, 0, 0)
	case domain.GranularityMonth:
		return start.AddDate(0, 1, 0)
	case domain.GranularityWeek:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Label renders a period start: "2024", "January 2024", "2024-W03" or "2024-01-15".
func Label(start time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityYear:
		return strconv.Itoa(start.Year())
	case domain.GranularityMonth:
		return start.Format("January 2006")
	case domain.GranularityWeek:
		y, w := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	default:
		return start.Format("2006-01-02")
	}
}

// ParsePeriod parses a label produced by Label back to its period start
// and granularity.
func ParsePeriod(label string) (time.Time, domain.Granularity, error) {
	label = strings.TrimSpace(label)
	if t, err := time.Parse("January 2006", label); err == nil {
		return t, domain.GranularityMonth, nil
	}
	if t, err := time.Parse("2006-01-02", label); err == nil {
		return t, domain.GranularityDay, nil
	}
	if y, w, ok := parseISOWeek(label); ok {
		return isoWeekStart(y, w), domain.GranularityWeek, nil
	}
	if len(label) == 4 {
		if y, err := strconv.Atoi(label); err == nil {
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), domain.GranularityYear, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("%w: unrecognised period %q", domain.ErrInvalidArgument, label)
}

func parseISOWeek(label string) (int, int, bool) {
	yearPart, weekPart, ok := strings.Cut(label, "-W")
	if !ok || len(yearPart) != 4 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0, 0, false
	}
	w, err := strconv.Atoi(weekPart)
	if err != nil || w < 1 || w > 53 {
		return 0, 0, false
	}
	return y, w, true
}

// isoWeekStart returns the Monday of ISO week w of year y. January 4th is
// always in week 1.
func isoWeekStart(y, w int) time.Time {
	jan4 := time.Date(y, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1 := Truncate(jan4, domain.GranularityWeek)
	return week1.AddDate(0, 0, (w-1)*7)
}

// SortBuckets orders buckets by period start, parsing the label when Start
// is unset, and merges buckets for the same period. Insertion order never
// matters.
func SortBuckets(buckets []domain.TimelineBucket) ([]domain.TimelineBucket, error) {
	out := make([]domain.TimelineBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Start.IsZero() {
			start, g, err := ParsePeriod(b.Label)
			if err != nil {
				return nil, err
			}
			b.Start = start
			if b.End.IsZero() {
				b.End = Next(start, g)
			}
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	merged := out[:0]
	for _, b := range out {
		if n := len(merged); n > 0 && merged[n-1].Start.Equal(b.Start) {
			last := &merged[n-1]
			last.DocumentIDs = mergeIDs(last.DocumentIDs, b.DocumentIDs)
			last.Score += b.Score
			if len(last.TopTerms) == 0 {
				last.TopTerms = b.TopTerms
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged, nil
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, id := range append(append([]string{}, a...), b...) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
