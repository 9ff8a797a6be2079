package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{
			UID:         "sunrise-20260829@suncal",
			Summary:     "Sunrise",
			Description: "Sunrise at 6:42 AM",
			Start:       time.Date(2026, 8, 29, 10, 12, 0, 0, time.UTC),
			End:         time.Date(2026, 8, 29, 10, 45, 0, 0, time.UTC),
		},
		{
			UID:     "peak-uv-20260829@suncal",
			Summary: "UV Index 8",
			Start:   time.Date(2026, 8, 29, 17, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC),
		},
	}

	body := string(Render(events, now))

	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"), "body %q", body[:40])
	assert.Contains(t, body, "METHOD:PUBLISH")
	assert.Contains(t, body, "REFRESH-INTERVAL")
	assert.Contains(t, body, "X-PUBLISHED-TTL:PT30M")

	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "UID:sunrise-20260829@suncal")
	assert.Contains(t, body, "SUMMARY:Sunrise")
	assert.Contains(t, body, "DESCRIPTION:Sunrise at 6:42 AM")
	assert.Contains(t, body, "SUMMARY:UV Index 8")
	assert.Contains(t, body, "DTSTART:20260829T101200Z")
	assert.Contains(t, body, "DTEND:20260829T104500Z")
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	events := []Event{{
		UID:     "sunset-20260829@suncal",
		Summary: "Sunset",
		Start:   time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 8, 29, 22, 30, 0, 0, time.UTC),
	}}

	require.Equal(t, Render(events, now), Render(events, now))
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	body := string(Render(nil, time.Now()))
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.NotContains(t, body, "BEGIN:VEVENT")
}
