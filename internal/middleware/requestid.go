package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id between proxy, server and
	// response.
	RequestIDHeader = "X-Request-ID"

	// RequestIDContextKey is the context key the request id is stored under.
	RequestIDContextKey contextKey = "request_id"

	// maxRequestIDLength bounds inherited ids; anything longer is replaced
	// so a client cannot stuff arbitrary payloads into the logs.
	maxRequestIDLength = 64
)

// RequestID tags every request with an id, echoed on the response and stored
// in the context for the request-scoped logger. An id supplied by a trusted
// proxy is kept when it looks sane; otherwise a fresh UUID is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRequestID accepts non-empty printable ASCII ids up to the length cap.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the request id stored in ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
