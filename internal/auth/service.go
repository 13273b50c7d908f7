package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-youapp/internal/user/repo"
)

// TokenIssuer signs access tokens for an identity.
type TokenIssuer interface {
	Issue(id Identity) (token string, expiresAt time.Time, err error)
}

// IDSource hands out new user ids.
type IDSource interface {
	NewID() string
}

// Session is the result of a successful register or login.
type Session struct {
	Message   string
	Token     string
	ExpiresAt time.Time
	User      *entity.View
}

// Service implements registration, login and credential checks.
type Service struct {
	users  userrepo.Directory
	hasher Hasher
	tokens TokenIssuer
	ids    IDSource
	log    *zap.SugaredLogger
	now    func() time.Time

	// decoy is verified against for unknown identifiers.
	decoyOnce sync.Once
	decoy     string
}

func NewService(users userrepo.Directory, hasher Hasher, tokens TokenIssuer, ids IDSource, log *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, ids: ids, log: log, now: time.Now}
}

// Register creates an account and returns a signed session for it.
// Inputs are expected to be validated already.
func (s *Service) Register(ctx context.Context, email, username, password string) (*Session, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	if err := s.ensureFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, "", username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := &entity.User{
		ID:           s.ids.NewID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			s.log.Infow("register lost unique race", "username", username, "err", err)
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Infow("user registered", "user_id", u.ID, "username", u.Username)

	return s.session(u.View(), fmt.Sprintf("Account created successfully for %s!", u.Username))
}

func (s *Service) ensureFree(ctx context.Context, email, username string) error {
	_, err := s.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil && email != "":
		return apperr.Conflict("email_exists", "Email already exists")
	case err == nil:
		return apperr.Conflict("username_exists", "Username already exists")
	case errors.Is(err, userrepo.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}

// Login authenticates identifier (email or username) and password.
// Unknown identifiers and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	view, err := s.ValidateCredentials(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperr.Unauthorized("invalid_credentials", "Invalid credentials")
	}
	if err := s.users.TouchLastLogin(ctx, view.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	return s.session(view, fmt.Sprintf("Welcome back, %s!", view.Username))
}

// ValidateCredentials returns the sanitized user when password matches, nil when
// the identifier is unknown or the password is wrong. Errors are infrastructure faults.
func (s *Service) ValidateCredentials(ctx context.Context, identifier, password string) (*entity.View, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil
	}
	if strings.Contains(identifier, "@") {
		identifier = normalizeEmail(identifier)
	}
	u, err := s.users.FindByEmailOrUsername(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			s.log.Debugw("login for unknown identifier")
			s.hasher.Verify(password, s.decoyHash())
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		s.log.Debugw("password mismatch", "user_id", u.ID)
		return nil, nil
	}
	if s.hasher.NeedsRehash(u.PasswordHash) {
		s.log.Infow("password hash uses outdated cost", "user_id", u.ID)
	}
	return u.View(), nil
}

func (s *Service) session(v *entity.View, msg string) (*Session, error) {
	token, exp, err := s.tokens.Issue(Identity{UserID: v.ID, Username: v.Username, Email: v.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Message: msg, Token: token, ExpiresAt: exp, User: v}, nil
}

func (s *Service) decoyHash() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash("decoy-password")
		if err != nil {
			s.log.Warnw("decoy hash", "error", err)
			return
		}
		s.decoy = h
	})
	return s.decoy
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
