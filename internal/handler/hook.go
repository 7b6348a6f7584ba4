package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
)

// HookSecretHeader carries the shared secret on identity-service hooks.
const HookSecretHeader = "X-Hook-Secret"

// HookHandler receives server-to-server hooks from the identity service.
type HookHandler struct {
	profiles domain.ProfileService
	secret   string
}

func NewHookHandler(profiles domain.ProfileService, secret string) *HookHandler {
	return &HookHandler{profiles: profiles, secret: secret}
}

type signupHookRequest struct {
	ID    string `json:"id" validate:"required,uuid"`
	Email string `json:"email" validate:"required,email"`
}

// Signup handles POST /hooks/signup: the identity service announces a new
// user and a profile row is provisioned for it. The hook is retried on
// failure, so provisioning is idempotent.
func (h *HookHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if subtle.ConstantTimeCompare([]byte(r.Header.Get(HookSecretHeader)), []byte(h.secret)) != 1 {
		UnauthorizedResponse(w, r)
		return
	}

	var req signupHookRequest
	if err := decodeJSON(r, "profile.provision", &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("profile.provision", "invalid user id"))
		return
	}

	profile, err := h.profiles.ProvisionProfile(r.Context(), id, req.Email)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"profile": toProfileResponse(profile),
	})
}
