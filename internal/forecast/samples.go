package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
)

// cacheNamespace keeps forecast payloads apart from any other use of the
// shared key-value store.
const cacheNamespace = "uv-forecast"

// CacheKey derives the cache key from the three raw request strings. The raw
// text is the identity: "30.480" and "30.48" are distinct keys on purpose,
// since normalizing them would silently change hit-rate behavior.
func CacheKey(latitude, longitude, altitude string) string {
	v := url.Values{}
	v.Set("lat", latitude)
	v.Set("lng", longitude)
	v.Set("alt", altitude)
	return cacheNamespace + ":/forecast?" + v.Encode()
}

// DecodeSamples decodes a cached forecast payload. Entries are written as the
// provider's bare `result` array, but older entries stored the whole response
// object, so both shapes are accepted. The shape is decided once here, at the
// cache-read boundary.
func DecodeSamples(data []byte) ([]Sample, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("empty cache payload")
	}

	var raw json.RawMessage
	switch trimmed[0] {
	case '[':
		raw = trimmed
	case '{':
		var envelope struct {
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		if envelope.Result == nil {
			return nil, errors.New("cache payload missing result array")
		}
		raw = envelope.Result
	default:
		return nil, errors.New("cache payload is neither array nor object")
	}

	var samples []Sample
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}
