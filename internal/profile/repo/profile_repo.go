package repo

import (
	"context"
	"errors"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
)

var ErrNotFound = errors.New("profile not found")

// Store persists profiles, at most one per user.
type Store interface {
	Create(ctx context.Context, p *entity.Profile) error
	FindByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	// Update overwrites the mutable fields of the profile owned by p.UserID.
	Update(ctx context.Context, p *entity.Profile) error
}

func errProfileExists(cause error) error {
	return apperr.Conflict("profile_exists", "Profile already exists").Wrap(cause)
}
