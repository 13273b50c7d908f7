package user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-youapp/internal/user/repo"
)

// UserService serves read access to accounts.
type UserService struct {
	repo   userrepo.Directory
	logger *zap.SugaredLogger
}

func NewUserService(r userrepo.Directory, logger *zap.SugaredLogger) *UserService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{repo: r, logger: logger}
}

// Me returns the sanitized record of the authenticated user.
func (s *UserService) Me(ctx context.Context, userID string) (*entity.View, error) {
	v, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			// a valid token for a vanished account
			s.logger.Warnw("token subject has no user record", "user_id", userID)
			return nil, apperr.NotFound("user_not_found", "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return v, nil
}
