package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, RouteLabel(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

// RouteLabel collapses bill ids so the path label stays low-cardinality.
// Non-API paths (static files) share one label.
func RouteLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/bills/"):
		return "/api/bills/{id}"
	case strings.HasPrefix(path, "/api/"), path == "/healthz", path == "/readyz", path == "/metrics":
		return path
	default:
		return "static"
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
