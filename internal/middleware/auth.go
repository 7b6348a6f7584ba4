package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/vidar/internal/identity"
)

type contextKey string

// UserContextKey is the context key for the authenticated user.
const UserContextKey contextKey = "user"

// WithUser verifies the bearer token against the identity service and, when
// valid, attaches the user to the request context. Requests without a token,
// or with one the identity service rejects, continue anonymously; RequireUser
// is what turns a missing user into a 401.
func WithUser(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, identity.ErrUnauthenticated) {
					GetLogger(r.Context()).Warn("token verification failed", "error", err.Error())
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom retrieves the authenticated user from the context, or nil.
func UserFrom(ctx context.Context) *identity.User {
	user, ok := ctx.Value(UserContextKey).(*identity.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
