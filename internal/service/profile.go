package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// ProfileSvc provisions profile rows for the identity service's signup hook.
type ProfileSvc struct {
	profiles domain.ProfileStore
	logger   *slog.Logger
}

var _ domain.ProfileService = (*ProfileSvc)(nil)

func NewProfileService(profiles domain.ProfileStore, logger *slog.Logger) *ProfileSvc {
	return &ProfileSvc{profiles: profiles, logger: logger}
}

// ProvisionProfile creates the profile row for a freshly signed-up user. The
// identity service retries its hook on failure, so creation is idempotent:
// re-provisioning an existing id returns the existing row unchanged.
func (s *ProfileSvc) ProvisionProfile(ctx context.Context, userID uuid.UUID, email string) (*domain.Profile, error) {
	const op = "profile.provision"

	if userID == uuid.Nil {
		return nil, domain.Invalid(op, "user id is required")
	}
	if email == "" {
		return nil, domain.Invalid(op, "email is required")
	}

	profile, err := s.profiles.CreateProfile(ctx, userID, email)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to provision profile")
	}

	s.logger.Info("profile provisioned", slog.String("user_id", userID.String()))
	if telemetry.Business != nil {
		telemetry.Business.Signups.Inc()
	}
	return profile, nil
}

// GetOwnProfile loads the caller's profile. A missing row for an
// authenticated user means provisioning never ran, which is a server-side
// problem, not a 404.
func (s *ProfileSvc) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const op = "profile.get_own"

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "profile not provisioned")
	}
	return profile, nil
}
