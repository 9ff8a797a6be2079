package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSamplesBareArray(t *testing.T) {
	t.Parallel()

	samples, err := DecodeSamples([]byte(`[{"uv":3.2,"uv_time":"2026-08-29T12:00:00Z"}]`))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.InDelta(t, 3.2, samples[0].UV, 0.001)
	assert.Equal(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), samples[0].Time.UTC())
}

func TestDecodeSamplesEnvelope(t *testing.T) {
	t.Parallel()

	// Older cache entries stored the whole upstream response object.
	samples, err := DecodeSamples([]byte(`{"result":[{"uv":3.2,"uv_time":"2026-08-29T12:00:00Z"},{"uv":0.4,"uv_time":"2026-08-29T13:00:00Z"}]}`))
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestDecodeSamplesRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          ``,
		"missing result": `{"status":"ok"}`,
		"scalar":         `42`,
		"broken json":    `{"result":[`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeSamples([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestCacheKeyUsesRawStrings(t *testing.T) {
	t.Parallel()

	// Trailing zeros are significant: the raw text is the identity.
	a := CacheKey("30.480", "-97.77", "650")
	b := CacheKey("30.48", "-97.77", "650")
	assert.NotEqual(t, a, b)

	assert.Equal(t, a, CacheKey("30.480", "-97.77", "650"))
	assert.Equal(t, "uv-forecast:/forecast?alt=650&lat=30.480&lng=-97.77", a)
}

func TestCacheKeyPercentEncodes(t *testing.T) {
	t.Parallel()

	key := CacheKey("30 .480", "-97.77", "+650")
	assert.Contains(t, key, "lat=30+.480")
	assert.Contains(t, key, "alt=%2B650")
}
