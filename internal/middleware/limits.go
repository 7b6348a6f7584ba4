package middleware

import "net/http"

// Common body size limits.
const (
	KB int64 = 1024
	MB int64 = 1024 * KB
)

// MaxBodySize caps request bodies at maxBytes. Oversized requests get 413;
// bodies that lie about Content-Length are cut off by MaxBytesReader.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
