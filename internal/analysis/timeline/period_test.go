package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAutoGranularity(t *testing.T) {
	assert.Equal(t, domain.GranularityDay, AutoGranularity(0))
	assert.Equal(t, domain.GranularityDay, AutoGranularity(14*day))
	assert.Equal(t, domain.GranularityWeek, AutoGranularity(30*day))
	assert.Equal(t, domain.GranularityMonth, AutoGranularity(365*day))
	assert.Equal(t, domain.GranularityYear, AutoGranularity(4*365*day))
}

func TestTruncateAndLabel(t *testing.T) {
	ts := time.Date(2024, 1, 17, 15, 30, 0, 0, time.FixedZone("X", 3*3600))

	tests := []struct {
		g     domain.Granularity
		start time.Time
		label string
		next  time.Time
	}{
		{domain.GranularityDay, date(2024, 1, 17), "2024-01-17", date(2024, 1, 18)},
		{domain.GranularityWeek, date(2024, 1, 15), "2024-W03", date(2024, 1, 22)},
		{domain.GranularityMonth, date(2024, 1, 1), "January 2024", date(2024, 2, 1)},
		{domain.GranularityYear, date(2024, 1, 1), "2024", date(2025, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(string(tt.g), func(t *testing.T) {
			start := Truncate(ts, tt.g)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.label, Label(start, tt.g))
			assert.Equal(t, tt.next, Next(start, tt.g))

			parsed, g, err := ParsePeriod(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.g, g)
			assert.Equal(t, tt.start, parsed)
		})
	}
}

func TestTruncate_ISOWeekAcrossYears(t *testing.T) {
	// 2021-01-01 is a Friday in ISO week 53 of 2020.
	start := Truncate(date(2021, 1, 1), domain.GranularityWeek)
	assert.Equal(t, date(2020, 12, 28), start)
	assert.Equal(t, "2020-W53", Label(start, domain.GranularityWeek))

	parsed, _, err := ParsePeriod("2020-W53")
	require.NoError(t, err)
	assert.Equal(t, start, parsed)
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, label := range []string{"", "Smarch 2024", "2024-W60", "24", "2024-13-01"} {
		_, _, err := ParsePeriod(label)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, label)
	}
}

func TestSortBuckets(t *testing.T) {
	t.Run("reversed insertion is reported sorted", func(t *testing.T) {
		sorted, err := SortBuckets([]domain.TimelineBucket{
			{Label: "March 2024"},
			{Label: "January 2024"},
		})
		require.NoError(t, err)
		require.Len(t, sorted, 2)
		assert.Equal(t, "January 2024", sorted[0].Label)
		assert.Equal(t, "March 2024", sorted[1].Label)
		assert.True(t, sorted[0].Start.Before(sorted[1].Start))
		assert.Equal(t, date(2024, 2, 1), sorted[0].End)
	})

	t.Run("merges duplicate periods", func(t *testing.T) {
		sorted, err := SortBuckets([]domain.TimelineBucket{
			{Label: "February 2024", DocumentIDs: []string{"b"}, Score: 1},
			{Label: "January 2024", DocumentIDs: []string{"x"}},
			{Label: "February 2024", DocumentIDs: []string{"a", "b"}, Score: 2},
		})
		require.NoError(t, err)
		require.Len(t, sorted, 2)
		assert.Equal(t, []string{"a", "b"}, sorted[1].DocumentIDs)
		assert.Equal(t, 3.0, sorted[1].Score)
	})

	t.Run("prefers explicit start", func(t *testing.T) {
		sorted, err := SortBuckets([]domain.TimelineBucket{
			{Label: "later", Start: date(2024, 5, 1)},
			{Label: "earlier", Start: date(2023, 5, 1)},
		})
		require.NoError(t, err)
		assert.Equal(t, "earlier", sorted[0].Label)
	})

	t.Run("unparseable label", func(t *testing.T) {
		_, err := SortBuckets([]domain.TimelineBucket{{Label: "someday"}})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
