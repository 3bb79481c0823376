package timefmt

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{65, "01:05"},
		{1499, "24:59"},
		{1500, "25:00"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.in))
		})
	}
}

func TestFormatTimeWholeSession(t *testing.T) {
	for n := 0; n <= 1500; n++ {
		got := FormatTime(n)
		require.Len(t, got, 5)
		require.Equal(t, fmt.Sprintf("%02d:%02d", n/60, n%60), got)
	}
}

func TestDetectHourCycle(t *testing.T) {
	tests := []struct {
		locale string
		want   HourCycle
	}{
		{"en_US.UTF-8", H12},
		{"en-US", H12},
		{"en_AU", H12},
		{"de_DE.UTF-8", H24},
		{"fr-FR", H24},
		{"en_GB.UTF-8", H24},
		{"C", H24},
		{"POSIX", H24},
		{"", H24},
		{"not a locale!!", H24},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectHourCycle(tt.locale))
		})
	}
}

func TestParseHourCycle(t *testing.T) {
	c, err := ParseHourCycle("12h", "de_DE")
	require.NoError(t, err)
	assert.Equal(t, H12, c)

	c, err = ParseHourCycle("auto", "en_US.UTF-8")
	require.NoError(t, err)
	assert.Equal(t, H12, c)

	c, err = ParseHourCycle("", "de_DE")
	require.NoError(t, err)
	assert.Equal(t, H24, c)

	_, err = ParseHourCycle("13h", "")
	assert.Error(t, err)
}

func TestEntryTime(t *testing.T) {
	ts := time.Date(2026, 3, 9, 15, 7, 0, 0, time.UTC)

	assert.Equal(t, "15:07", EntryTime(ts, time.UTC, H24))
	assert.Equal(t, "03:07 PM", EntryTime(ts, time.UTC, H12))

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "17:07", EntryTime(ts, plus2, H24))
}

func TestDateHeading(t *testing.T) {
	ts := time.Date(2026, 3, 9, 15, 7, 0, 0, time.UTC)
	assert.Equal(t, "Monday, March 9", DateHeading(ts))
}
