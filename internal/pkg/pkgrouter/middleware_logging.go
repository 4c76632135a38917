package pkgrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

type routeContextKey struct{}

func middlewareRoute(pattern string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeContextKey{}, pattern)))
		})
	}
}

// matchedRoutePath is the registered pattern, or the raw path for requests
// that reached the not-found handler.
func matchedRoutePath(r *http.Request) string {
	if pattern, ok := r.Context().Value(routeContextKey{}).(string); ok && pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func isJSONContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

func readBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	//nolint:errcheck // best effort for logging only
	body, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
	return body
}

// logLevel keeps static asset traffic out of INFO and raises server errors.
func logLevel(status int, contentType string) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status < http.StatusBadRequest && contentType != "" && !isJSONContent(contentType):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// middlewareLogging writes a single structured line per request once the
// response is complete. Path parameters, headers and JSON bodies go through m.
func middlewareLogging(m masker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqBody := readBody(r)

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.Status()
			contentType := rec.Header().Get("Content-Type")

			var respBody any
			switch {
			case contentType != "" && !isJSONContent(contentType):
				respBody = "<" + contentType + " body omitted>"
			case rec.capped:
				respBody = map[string]any{"truncated": true, "bytes": rec.bytes}
			case rec.body.Len() > 0:
				var decoded any
				if err := json.Unmarshal(rec.body.Bytes(), &decoded); err == nil {
					respBody = m.data(decoded)
				}
			}

			slog.Log(r.Context(), logLevel(status, contentType), "http request",
				slog.Group("request",
					"method", r.Method,
					"route", matchedRoutePath(r),
					"params", m.params(httprouter.ParamsFromContext(r.Context())),
					"headers", m.headers(r.Header),
					"body", m.body(r.Header.Get("Content-Type"), reqBody),
				),
				slog.Group("response",
					"status", status,
					"bytes", rec.bytes,
					"body", respBody,
				),
				"latency_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
