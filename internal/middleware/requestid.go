package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is echoed on every response and forwarded to the remote
// data source.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps an inbound X-Request-ID (or X-Correlation-ID from proxies
// that use that name) when it parses as a UUID and mints a new one otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := inboundRequestID(r)
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), rid)))
	})
}

func inboundRequestID(r *http.Request) string {
	for _, h := range []string{RequestIDHeader, "X-Correlation-ID"} {
		if id, err := uuid.Parse(r.Header.Get(h)); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// WithRequestID stores id for RequestIDFromContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
