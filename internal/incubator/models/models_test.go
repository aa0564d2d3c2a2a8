package models

import (
	"testing"
	"time"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(t *testing.T, begin string, end string) Interval {
	t.Helper()
	b, err := ParseDate(begin)
	require.NoError(t, err)
	i := Interval{Begin: b}
	if end != "" {
		d, err := ParseDate(end)
		require.NoError(t, err)
		i.End = &d
	}
	return i
}

func TestInterval_Overlaps(t *testing.T) {
	existing := interval(t, "2024-01-01", "2024-06-30")
	tests := []struct {
		name string
		next Interval
		want bool
	}{
		{"open starting inside", interval(t, "2024-05-01", ""), true},
		{"open starting after", interval(t, "2024-07-01", ""), false},
		{"ending on the begin date", interval(t, "2023-06-01", "2024-01-01"), true},
		{"starting on the end date", interval(t, "2024-06-30", "2024-12-31"), true},
		{"entirely before", interval(t, "2023-01-01", "2023-12-31"), false},
		{"covering", interval(t, "2023-01-01", "2025-01-01"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, existing.Overlaps(tt.next))
			assert.Equal(t, tt.want, tt.next.Overlaps(existing))
		})
	}

	assert.True(t, interval(t, "2020-01-01", "").Overlaps(interval(t, "2030-01-01", "")))
}

func TestInterval_Validate(t *testing.T) {
	assert.NoError(t, interval(t, "2024-01-01", "2024-01-01").Validate())
	assert.NoError(t, interval(t, "2024-01-01", "").Validate())
	assert.ErrorIs(t, interval(t, "2024-02-01", "2024-01-31").Validate(), e.ErrInvalidInput)
	assert.ErrorIs(t, Interval{}.Validate(), e.ErrInvalidInput)
}

func TestInterval_Contains(t *testing.T) {
	closed := interval(t, "2024-01-01", "2024-06-30")
	day := func(s string) time.Time {
		d, err := ParseDate(s)
		require.NoError(t, err)
		return d
	}
	assert.True(t, closed.Contains(day("2024-01-01")))
	assert.True(t, closed.Contains(day("2024-06-30")))
	assert.False(t, closed.Contains(day("2024-07-01")))
	assert.True(t, interval(t, "2024-01-01", "").Contains(day("2099-01-01")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" pm ")
	require.NoError(t, err)
	assert.Equal(t, KindCorporate, k)

	_, err = ParseKind("PX")
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	assert.NoError(t, KindIndividual.Require(KindIndividual))
	assert.ErrorIs(t, KindCorporate.Require(KindIndividual), e.ErrInvalidInput)
}

func TestKindsFromFlags(t *testing.T) {
	assert.Equal(t, []Kind{KindIndividual, KindCorporate}, KindsFromFlags(false, false))
	assert.Equal(t, []Kind{KindIndividual, KindCorporate}, KindsFromFlags(true, true))
	assert.Equal(t, []Kind{KindCorporate}, KindsFromFlags(true, false))
	assert.Equal(t, []Kind{KindIndividual}, KindsFromFlags(false, true))
}

func TestSearchFilter_Normalize(t *testing.T) {
	f := SearchFilter{BatimentID: 1, Limit: MaxPageSize + 1}
	require.NoError(t, f.Normalize())
	assert.Equal(t, MaxPageSize, f.Limit)
	assert.Len(t, f.Kinds, 2)

	f = SearchFilter{BatimentID: 1}
	require.NoError(t, f.Normalize())
	assert.Equal(t, DefaultPageSize, f.Limit)

	for _, bad := range []SearchFilter{{}, {BatimentID: 1, Offset: -1}, {BatimentID: 1, Limit: -1}} {
		assert.ErrorIs(t, bad.Normalize(), e.ErrInvalidInput)
	}
}

func TestCursors(t *testing.T) {
	ptr := func(v int) *int { return &v }
	tests := []struct {
		name             string
		offset, limit    int
		total            int64
		wantNext, wantPr *int
	}{
		{"first page", 0, 10, 25, ptr(10), nil},
		{"middle page", 10, 10, 25, ptr(20), ptr(0)},
		{"last page", 20, 10, 25, nil, ptr(10)},
		{"prev clamped", 5, 10, 25, ptr(15), ptr(0)},
		{"empty", 0, 10, 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, prev := Cursors(tt.offset, tt.limit, tt.total)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantPr, prev)
		})
	}
}
