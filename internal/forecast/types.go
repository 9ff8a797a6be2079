package forecast

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// Sample is one raw hourly UV reading from the provider.
type Sample struct {
	UV   float64   `json:"uv"`
	Time time.Time `json:"uv_time"`
}

// Coordinates carries the three request parameters exactly as received.
// They stay strings end to end: the provider accepts them verbatim and the
// cache key is defined over the raw text, not the parsed values.
type Coordinates struct {
	Latitude  string
	Longitude string
	Altitude  string
}

// Values builds the upstream query parameters.
func (c Coordinates) Values() url.Values {
	v := url.Values{}
	v.Set("lat", c.Latitude)
	v.Set("lng", c.Longitude)
	v.Set("alt", c.Altitude)
	return v
}

// Forecast is a successful upstream response: the decoded samples plus the
// provider's `result` array byte-for-byte, which is what gets cached.
type Forecast struct {
	Samples []Sample
	Raw     json.RawMessage
}

// Client fetches UV forecasts from the upstream provider.
type Client interface {
	Fetch(ctx context.Context, coords Coordinates) (*Forecast, error)
}

// UpstreamError is returned once the retry budget is exhausted. It carries
// the last failure observed, so callers see the real cause rather than a
// generic retries-exceeded message.
type UpstreamError struct {
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
