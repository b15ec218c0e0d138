package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/DusanM998/ToDoApplication/internal/platform/metrics"
)

// MetricsMiddleware records the duration of every request in the HTTP
// latency histogram, labeled by method, route pattern, and status. The
// route pattern is used instead of the raw path to keep label cardinality
// bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		metrics.RecordHTTPRequestDuration(
			r.Method,
			path,
			strconv.Itoa(ww.Status()),
			time.Since(start),
		)
	})
}
