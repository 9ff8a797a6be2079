package suncal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLat    = 40.7128
	testLng    = -74.0060
	testHeight = 33.0 // feet
)

func TestEventsProducesFullWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	events := Events(testLat, testLng, testHeight, now, 0)

	// 360 days, a sunrise and a sunset event each.
	require.Len(t, events, 720)

	var sunrises, sunsets int
	for _, e := range events {
		switch e.Summary {
		case "Sunrise":
			sunrises++
		case "Sunset":
			sunsets++
		default:
			t.Fatalf("unexpected summary %q", e.Summary)
		}
		assert.True(t, e.Start.Before(e.End), "event %s has start %v after end %v", e.UID, e.Start, e.End)
	}
	assert.Equal(t, 360, sunrises)
	assert.Equal(t, 360, sunsets)
}

func TestEventsWindowIsCenteredOnToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	events := Events(testLat, testLng, testHeight, now, 0)
	require.NotEmpty(t, events)

	first := events[0]
	last := events[len(events)-1]

	assert.Equal(t, "sunrise-20250916@suncal", first.UID) // today - 180d
	assert.Equal(t, "sunset-20260910@suncal", last.UID)   // today + 179d
}

func TestEventsDeterministicForFixedNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	a := Events(testLat, testLng, testHeight, now, 2)
	b := Events(testLat, testLng, testHeight, now, 2)
	assert.Equal(t, a, b)
}

func TestEventDescriptionsShowOffsetClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)
	utc := Events(testLat, testLng, testHeight, now, 0)
	shifted := Events(testLat, testLng, testHeight, now, -4)
	require.NotEmpty(t, utc)
	require.NotEmpty(t, shifted)

	assert.True(t, strings.HasPrefix(utc[0].Description, "Sunrise at "), "description %q", utc[0].Description)
	assert.True(t, strings.HasPrefix(shifted[1].Description, "Sunset at "), "description %q", shifted[1].Description)

	// The instants themselves are unchanged; only the clock text moves.
	assert.Equal(t, utc[0].Start, shifted[0].Start)
	assert.NotEqual(t, utc[0].Description, shifted[0].Description)
}
