package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
)

var ErrNotFound = errors.New("user not found")

// Directory is the user store. Implementations must reject duplicate email or
// username atomically inside Create.
type Directory interface {
	// FindByEmailOrUsername returns the user whose email equals email or whose
	// username equals username. Empty arguments are ignored.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	// Create inserts u. Duplicates surface as an apperr conflict.
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.View, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// conflictFor maps a constraint or index name to a conflict error. detail must
// not carry the duplicated value.
func conflictFor(detail string, cause error) error {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "email"):
		return apperr.Conflict("email_exists", "Email already exists").Wrap(cause)
	case strings.Contains(d, "username"):
		return apperr.Conflict("username_exists", "Username already exists").Wrap(cause)
	default:
		return apperr.Conflict("user_exists", "User already exists").Wrap(cause)
	}
}
