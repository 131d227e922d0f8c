package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonNrCenturyInference(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"recent year gets 20xx", "051212-1212", "200512121212", true},
		{"year close to now gets 19xx", "231212-1212", "192312121212", true},
		{"threshold year gets 20xx", "191212-1212", "201912121212", true},
		{"explicit century kept", "19461212-1212", "194612121212", true},
		{"plus separator", "19461212+1212", "194612121212", true},
		{"non-numeric suffix kept verbatim", "051212-T212", "20051212T212", true},
		{"no separator", "0512121212", "200512121212", true},
		{"garbage", "abc", "", false},
		{"too short", "051212", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := personNrAt(tt.input, now)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersonNrIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	canonical, ok := personNrAt("051212-1212", now)
	require.True(t, ok)

	again, ok := personNrAt(canonical, now)
	require.True(t, ok)
	assert.Equal(t, canonical, again)
}

func TestDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"190314", "2019-03-14", true},
		{"19-03-14", "2019-03-14", true},
		{"20190314", "2019-03-14", true},
		{"2019-03-14", "2019-03-14", true},
		{"abc", "", false},
		{"19-03", "", false},
	}

	for _, tt := range tests {
		got, ok := Date(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

// Dates always default to the 2000s while person numbers use the five-year
// threshold. The asymmetry is inherited behavior and deliberately kept.
func TestDateCenturyDiffersFromPersonNr(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	pnr, ok := personNrAt("230101-1212", now)
	require.True(t, ok)
	assert.Equal(t, "19", pnr[:2])

	date, ok := Date("230101")
	require.True(t, ok)
	assert.Equal(t, "2023-01-01", date)
}
