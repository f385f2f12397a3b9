package runtime

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport records outbound Google requests at debug level: method,
// host, path, status and latency. Bodies and query strings are never logged
// since token exchanges carry signed assertions.
type loggingTransport struct {
	base http.RoundTripper
	log  *slog.Logger
}

func newLoggingTransport(base http.RoundTripper, logger *slog.Logger) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, log: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	attrs := []any{
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		t.log.DebugContext(req.Context(), "google api request failed", append(attrs, slog.Any("error", err))...)
		return resp, err
	}
	t.log.DebugContext(req.Context(), "google api request", append(attrs, slog.Int("status", resp.StatusCode))...)
	return resp, nil
}
