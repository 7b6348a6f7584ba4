package identity

import "context"

// MockVerifier is an in-memory Verifier for tests. Tokens map directly to
// users; unknown tokens are unauthenticated.
type MockVerifier struct {
	// VerifyTokenFunc allows customizing verification behavior.
	VerifyTokenFunc func(ctx context.Context, token string) (*User, error)

	// Users maps tokens to users.
	Users map[string]*User
}

// Compile-time check that MockVerifier implements Verifier.
var _ Verifier = (*MockVerifier)(nil)

// NewMockVerifier creates an empty mock verifier.
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{Users: make(map[string]*User)}
}

// VerifyToken resolves a token from the in-memory map.
func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (*User, error) {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	if u, ok := m.Users[token]; ok {
		return u, nil
	}
	return nil, ErrUnauthenticated
}
