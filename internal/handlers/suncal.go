package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"suncal-service/internal/cache"
	"suncal-service/internal/forecast"
	"suncal-service/internal/ical"
	"suncal-service/internal/suncal"
	"suncal-service/internal/uvevent"
	"suncal-service/pkg/logging/logging"
)

const defaultMinUV = 1

// SunCalHandler holds dependencies for the /sun-cal.ics endpoint.
type SunCalHandler struct {
	Store    cache.Store
	CacheTTL time.Duration
	// Client is nil when no upstream credential is configured; requests then
	// fail with 500 rather than at startup, so the operator sees the problem
	// where it bites.
	Client forecast.Client
	// Now is the clock pivot for the sun event window; overridable in tests.
	Now func() time.Time
}

func NewSunCalHandler(store cache.Store, ttl time.Duration, client forecast.Client) *SunCalHandler {
	return &SunCalHandler{
		Store:    store,
		CacheTTL: ttl,
		Client:   client,
		Now:      time.Now,
	}
}

// calendarParams is the validated query input.
type calendarParams struct {
	// raw strings as received; these are the cache and upstream identity
	latitude  string
	longitude string
	height    string

	lat      float64
	lng      float64
	heightFt float64
	minUV    int
	tzOffset float64
}

// parseParams validates the query. The returned error message is
// user-facing: it lists every missing required name, or names the first
// malformed parameter.
func parseParams(q url.Values) (calendarParams, error) {
	var p calendarParams

	var missing []string
	for _, name := range []string{"latitude", "longitude", "height"} {
		if q.Get(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}

	p.latitude = q.Get("latitude")
	p.longitude = q.Get("longitude")
	p.height = q.Get("height")

	var err error
	if p.lat, err = strconv.ParseFloat(p.latitude, 64); err != nil {
		return p, fmt.Errorf("invalid parameter latitude: %q is not a decimal number", p.latitude)
	}
	if p.lng, err = strconv.ParseFloat(p.longitude, 64); err != nil {
		return p, fmt.Errorf("invalid parameter longitude: %q is not a decimal number", p.longitude)
	}
	heightInt, err := strconv.Atoi(p.height)
	if err != nil {
		return p, fmt.Errorf("invalid parameter height: %q is not an integer", p.height)
	}
	p.heightFt = float64(heightInt)

	p.minUV = defaultMinUV
	if raw := q.Get("min-uv"); raw != "" {
		p.minUV, err = strconv.Atoi(raw)
		if err != nil || p.minUV < 0 {
			return p, fmt.Errorf("invalid parameter min-uv: %q is not a non-negative integer", raw)
		}
	}

	if raw := q.Get("tz"); raw != "" {
		p.tzOffset, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("invalid parameter tz: %q is not a number", raw)
		}
	}

	return p, nil
}

// GetCalendar handles GET /sun-cal.ics.
func (h *SunCalHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	params, err := parseParams(r.URL.Query())
	if err != nil {
		logger.Warn("invalid request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.Client == nil {
		logger.Error("upstream credential not configured")
		http.Error(w, "server credential not configured", http.StatusInternalServerError)
		return
	}

	samples, err := h.forecastSamples(ctx, params)
	if err != nil {
		logger.Error("uv forecast failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	now := h.Now()
	events := suncal.Events(params.lat, params.lng, params.heightFt, now, params.tzOffset)

	if peak, ok := uvevent.Build(samples, params.minUV, params.tzOffset); ok {
		events = append(events, ical.Event{
			UID:         "peak-uv-" + now.UTC().Format("20060102") + "@suncal",
			Summary:     peak.Summary,
			Description: peak.Description,
			Start:       peak.Start,
			End:         peak.End,
		})
	}

	body := ical.Render(events, now)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(h.CacheTTL.Seconds())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	logger.Info("calendar served",
		zap.Int("events", len(events)),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
}

// forecastSamples returns the UV samples for params, from cache when fresh.
// On a miss it fetches upstream and schedules the cache write in the
// background: the response never waits on cache population, and a failed
// write only costs a refetch later.
func (h *SunCalHandler) forecastSamples(ctx context.Context, params calendarParams) ([]forecast.Sample, error) {
	logger := logging.L(ctx)
	key := forecast.CacheKey(params.latitude, params.longitude, params.height)

	cached, hit, err := h.Store.Get(ctx, key)
	if err != nil {
		// Cache is best-effort; log and treat as miss.
		logger.Warn("forecast_cache_get_error", zap.Error(err))
		hit = false
	}
	if hit {
		samples, err := forecast.DecodeSamples(cached)
		if err == nil {
			return samples, nil
		}
		logger.Warn("forecast_cache_decode_error", zap.Error(err))
	}

	fc, err := h.Client.Fetch(ctx, forecast.Coordinates{
		Latitude:  params.latitude,
		Longitude: params.longitude,
		Altitude:  params.height,
	})
	if err != nil {
		return nil, err
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		writeCtx = logging.WithLogger(writeCtx, logger)
		if err := h.Store.Set(writeCtx, key, fc.Raw, h.CacheTTL); err != nil {
			logger.Warn("forecast_cache_set_error", zap.Error(err))
		}
	}()

	return fc.Samples, nil
}
