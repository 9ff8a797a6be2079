package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"suncal-service/internal/handlers"
	"suncal-service/internal/metrics"
	"suncal-service/internal/middleware"
)

// The overall request deadline has to cover the full upstream retry budget:
// 7 attempts of up to 10s each plus 63s of backoff.
const requestTimeout = 150 * time.Second

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, sunCal *handlers.SunCalHandler) {

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())             // panic recovery
	r.Use(middleware.Timeout(requestTimeout)) // request timeout

	// routes; chi answers non-GET methods on this pattern with 405
	r.Get("/sun-cal.ics", sunCal.GetCalendar)

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
