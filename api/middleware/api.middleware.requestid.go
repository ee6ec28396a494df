// FilePath: api/middleware/api.middleware.requestid.go
package middleware

import (
	"context"
	"net/http"

	nuts "github.com/vaudience/go-nuts"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is echoed on every response so callers can correlate logs
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a generated request id to the context and the response.
// A caller-supplied id is kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = nuts.NID("req", 12)
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored by RequestID, or an empty string
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
