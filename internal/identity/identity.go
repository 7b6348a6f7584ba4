// Package identity consumes the external identity service as an opaque
// capability. Authentication, session issuance and account storage live in
// that service; this application only resolves a session token to the user it
// belongs to.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned when a token does not resolve to a session.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// User is the identity the external service vouches for.
type User struct {
	ID    uuid.UUID
	Email string
}

// Verifier resolves a session token to the authenticated user.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}
