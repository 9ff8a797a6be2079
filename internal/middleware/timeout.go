package middleware

import (
	"context"
	"net/http"
	"time"

	"suncal-service/pkg/logging/logging"

	"go.uber.org/zap"
)

// Timeout cancels the request context after d and returns 504 if still
// running. This is the overall deadline of a request; the upstream client's
// per-attempt timeouts nest underneath it, so hitting d aborts the whole
// retry loop.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			r = r.WithContext(ctx)

			done := make(chan struct{})
			go func() {
				next.ServeHTTP(w, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
				logger := logging.L(ctx)
				logger.Warn("request timeout", zap.Duration("timeout", d))
				http.Error(w, "request timed out", http.StatusGatewayTimeout)
			}
		})
	}
}
