package util

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxLoggedBody caps how much of a response body is written to debug logs.
const maxLoggedBody = 2048

// LoggingTransport is an http.RoundTripper that logs outbound requests and a
// prefix of each response body when debug logging is enabled.
type LoggingTransport struct {
	Base http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if !slog.Default().Enabled(req.Context(), slog.LevelDebug) {
		return base.RoundTrip(req)
	}

	start := time.Now()
	slog.Debug("Outbound request", "method", req.Method, "url", req.URL.String())

	resp, err := base.RoundTrip(req)
	if err != nil {
		slog.Debug("Outbound request failed", "url", req.URL.String(), "error", err)
		return resp, err
	}

	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(respBody))

	logged := respBody
	if len(logged) > maxLoggedBody {
		logged = logged[:maxLoggedBody]
	}
	slog.Debug("Outbound response",
		"status", resp.StatusCode,
		"url", req.URL.String(),
		"bytes", len(respBody),
		"elapsed", time.Since(start),
		"body", string(logged),
	)

	return resp, nil
}
