package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var wed = time.Date(2026, 5, 6, 15, 30, 0, 0, time.UTC)

func TestParseWindowCalendarBoundaries(t *testing.T) {
	tests := []struct {
		kind string
		from time.Time
	}{
		{WindowDay, time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)},
		{WindowWeek, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)},
		{WindowMonth, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{WindowAll, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			w, err := ParseWindow(tt.kind, "", "", wed, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.from.Equal(w.From), "from = %s", w.From)
			assert.True(t, wed.Equal(w.To))
		})
	}
}

func TestParseWindowUsesLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 03:00 on Thursday in WIB
	at := time.Date(2026, 5, 6, 20, 0, 0, 0, time.UTC)

	w, err := ParseWindow(WindowDay, "", "", at, wib)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 5, 6, 17, 0, 0, 0, time.UTC).Equal(w.From), "from = %s", w.From)
}

func TestParseWindowCustom(t *testing.T) {
	w, err := ParseWindow(WindowCustom, "2026-05-01", "2026-05-03", wed, time.UTC)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Equal(w.From))
	assert.True(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC).Equal(w.To))
	assert.True(t, w.Contains(time.Date(2026, 5, 3, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)))

	open, err := ParseWindow(WindowCustom, "2026-04-20", "", wed, time.UTC)
	require.NoError(t, err)
	assert.True(t, wed.Equal(open.To))
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	cases := []struct{ kind, from, to string }{
		{WindowCustom, "", ""},
		{WindowCustom, "yesterday-ish", ""},
		{WindowCustom, "2026-05-03", "2026-05-01"},
		{"year", "", ""},
	}
	for _, c := range cases {
		_, err := ParseWindow(c.kind, c.from, c.to, wed, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidWindow, "%+v", c)
	}
}
