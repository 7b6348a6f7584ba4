package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHookSecret = "hook-secret"

func postSignupHook(h *HookHandler, body, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hooks/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(HookSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.Signup(rec, req)
	return rec
}

func TestSignupHook(t *testing.T) {
	profiles := &mockProfileService{}
	h := NewHookHandler(profiles, testHookSecret)

	userID := uuid.New()
	body := fmt.Sprintf(`{"id":%q,"email":"new@example.com"}`, userID)
	rec := postSignupHook(h, body, testHookSecret)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")
	require.Len(t, profiles.CallLog, 1)
	assert.Equal(t, "ProvisionProfile(new@example.com)", profiles.CallLog[0])
}

func TestSignupHook_WrongSecret(t *testing.T) {
	profiles := &mockProfileService{}
	h := NewHookHandler(profiles, testHookSecret)

	body := fmt.Sprintf(`{"id":%q,"email":"new@example.com"}`, uuid.New())
	rec := postSignupHook(h, body, "wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, profiles.CallLog)
}

func TestSignupHook_MissingSecret(t *testing.T) {
	profiles := &mockProfileService{}
	h := NewHookHandler(profiles, testHookSecret)

	body := fmt.Sprintf(`{"id":%q,"email":"new@example.com"}`, uuid.New())
	rec := postSignupHook(h, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, profiles.CallLog)
}

func TestSignupHook_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"email":"new@example.com"}`},
		{"not a uuid", `{"id":"12345","email":"new@example.com"}`},
		{"missing email", fmt.Sprintf(`{"id":%q}`, uuid.New())},
		{"bad email", fmt.Sprintf(`{"id":%q,"email":"nope"}`, uuid.New())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfileService{}
			h := NewHookHandler(profiles, testHookSecret)

			rec := postSignupHook(h, tt.body, testHookSecret)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, profiles.CallLog)
		})
	}
}
