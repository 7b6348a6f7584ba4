package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPVerifier verifies session tokens against the identity service's user
// endpoint. The service authenticates the token and returns the user it
// belongs to; any non-200 response means the session is invalid.
type HTTPVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Compile-time check that HTTPVerifier implements Verifier.
var _ Verifier = (*HTTPVerifier)(nil)

// NewHTTPVerifier creates a verifier for the identity service at baseURL.
func NewHTTPVerifier(baseURL, apiKey string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken resolves a session token to the authenticated user.
func (v *HTTPVerifier) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("identity: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("identity: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var ur userResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("identity: failed to parse response: %w", err)
	}

	id, err := uuid.Parse(ur.ID)
	if err != nil {
		return nil, fmt.Errorf("identity: malformed user id %q: %w", ur.ID, err)
	}

	return &User{ID: id, Email: ur.Email}, nil
}
