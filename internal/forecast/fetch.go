package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"suncal-service/internal/metrics"
)

const maxBodyPreview = 200 // max characters of an upstream body quoted in errors

// Fetch retrieves the UV forecast for coords, retrying failed attempts with
// exponential backoff. Every attempt failure is retryable here: caller input
// is validated before this client runs, so a failed attempt only ever means
// the provider or the network misbehaved.
//
// The loop is strictly sequential. Each attempt gets its own timeout; a
// timed-out attempt counts against the budget like any other failure. Only
// the caller's ctx aborts the loop as a whole.
func (c *client) Fetch(ctx context.Context, coords Coordinates) (*Forecast, error) {
	start := time.Now()
	url := c.cfg.BaseURL + "/api/v1/forecast?" + coords.Values().Encode()

	maxAttempts := c.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := backoffFor(c.cfg.BaseBackoff, attempt)
			c.logger.Debug("backing off before retry",
				zap.Duration("backoff", backoff),
				zap.Int("next_attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		metrics.UpstreamAttemptsTotal.Inc()

		fc, err := c.fetchOnce(ctx, url)
		if err == nil {
			c.logger.Info("uv forecast fetched",
				zap.Int("samples", len(fc.Samples)),
				zap.Int("attempt", attempt+1),
				zap.Duration("duration", time.Since(start)),
			)
			return fc, nil
		}

		// The overall deadline aborts the loop; a per-attempt timeout does not.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		c.logger.Debug("uv forecast attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err),
		)
	}

	c.logger.Warn("uv forecast exhausted all retries",
		zap.Int("attempts", maxAttempts),
		zap.Error(lastErr),
	)
	return nil, &UpstreamError{Attempts: maxAttempts, Err: lastErr}
}

// backoffFor returns the delay before the attempt-th try (attempt >= 1):
// base, 2*base, 4*base, ... — plain exponential, no jitter. Concurrent
// requests do not share a retry loop, so jitter buys nothing here.
func backoffFor(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// fetchOnce performs a single attempt under its own timeout.
func (c *client) fetchOnce(parent context.Context, url string) (*Forecast, error) {
	ctx, cancel := context.WithTimeout(parent, c.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("uvclient: build HTTP request: %w", err)
	}
	req.Header.Set("x-access-token", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uvclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("uvclient: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("uvclient: upstream status %d: %s",
			resp.StatusCode, truncate(string(body), maxBodyPreview))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("uvclient: decode upstream response: %w", err)
	}
	if envelope.Result == nil {
		return nil, fmt.Errorf("uvclient: upstream response missing result array")
	}

	var samples []Sample
	if err := json.Unmarshal(envelope.Result, &samples); err != nil {
		return nil, fmt.Errorf("uvclient: decode result array: %w", err)
	}

	return &Forecast{Samples: samples, Raw: envelope.Result}, nil
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
