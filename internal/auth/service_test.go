package auth

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-youapp/internal/user/repo"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) NewID() string { return strconv.FormatInt(s.n.Add(1), 10) }

// countingHasher records how many hashes were computed and compared.
type countingHasher struct {
	*BcryptHasher
	hashes   atomic.Int32
	verifies atomic.Int32
}

func (c *countingHasher) Verify(p, h string) bool {
	c.verifies.Add(1)
	return c.BcryptHasher.Verify(p, h)
}

func (c *countingHasher) Hash(p string) (string, error) {
	c.hashes.Add(1)
	return c.BcryptHasher.Hash(p)
}

type fixture struct {
	svc    *Service
	users  *userrepo.MemoryRepo
	tokens *Issuer
	hasher *countingHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := userrepo.NewMemoryRepo()
	tokens := newTestIssuer(t, "secret")
	hasher := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
	return &fixture{
		svc:    NewService(users, hasher, tokens, &seqIDs{}, nil),
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Register(context.Background(), " Alice@Example.com ", "alice", "Abc1!x")
	require.NoError(t, err)

	assert.Equal(t, "Account created successfully for alice!", s.Message)
	assert.Equal(t, &entity.View{ID: "1", Email: "alice@example.com", Username: "alice"}, s.User)

	claims, err := f.tokens.Verify(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)

	stored, err := f.users.FindByEmailOrUsername(context.Background(), "alice@example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc1!x", stored.PasswordHash)
	assert.True(t, f.hasher.Verify("Abc1!x", stored.PasswordHash))
}

func TestRegister_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "alice@example.com", "alice", "Abc1!x")
	require.NoError(t, err)
	before := f.hasher.hashes.Load()

	tests := []struct {
		name     string
		email    string
		username string
		code     string
	}{
		{"same email", "alice@example.com", "alice2", "email_exists"},
		{"same email other case", "ALICE@example.com", "alice3", "email_exists"},
		{"same username", "other@example.com", "alice", "username_exists"},
		{"both", "alice@example.com", "alice", "email_exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := f.svc.Register(ctx, tt.email, tt.username, "Abc1!x")
			assert.Nil(t, s)
			require.ErrorIs(t, err, apperr.ErrConflict)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, ae.Code)
		})
	}
	assert.Equal(t, before, f.hasher.hashes.Load(), "no hashing after a conflict")
}

// raceDirectory misses on lookup and then loses the insert, as if a concurrent
// registration committed in between.
type raceDirectory struct{ userrepo.Directory }

func (raceDirectory) FindByEmailOrUsername(context.Context, string, string) (*entity.User, error) {
	return nil, userrepo.ErrNotFound
}

func (raceDirectory) Create(context.Context, *entity.User) error {
	return apperr.Conflict("email_exists", "Email already exists")
}

func TestRegister_RaceBackstop(t *testing.T) {
	svc := NewService(raceDirectory{}, NewBcryptHasher(bcrypt.MinCost), newTestIssuer(t, "secret"), &seqIDs{}, nil)
	_, err := svc.Register(context.Background(), "a@x.io", "alice", "Abc1!x")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

type brokenDirectory struct{ userrepo.Directory }

func (brokenDirectory) FindByEmailOrUsername(context.Context, string, string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailuresAreNotDomainErrors(t *testing.T) {
	svc := NewService(brokenDirectory{}, NewBcryptHasher(bcrypt.MinCost), newTestIssuer(t, "secret"), &seqIDs{}, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.io", "alice", "Abc1!x")
	require.Error(t, err)
	_, isDomain := apperr.As(err)
	assert.False(t, isDomain)

	v, err := svc.ValidateCredentials(ctx, "alice", "Abc1!x")
	assert.Nil(t, v)
	assert.Error(t, err)

	_, err = svc.Login(ctx, "alice", "Abc1!x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, "alice@example.com", "alice", "Abc1!x")
	require.NoError(t, err)

	for _, ident := range []string{"alice", "alice@example.com", "Alice@Example.com"} {
		s, err := f.svc.Login(ctx, ident, "Abc1!x")
		require.NoError(t, err, ident)
		assert.Equal(t, "Welcome back, alice!", s.Message)
		assert.Equal(t, reg.User, s.User)
		claims, err := f.tokens.Verify(s.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, claims.Subject)
	}

	stored, err := f.users.FindByEmailOrUsername(ctx, "", "alice")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *stored.LastLoginAt, 5*time.Second)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "alice@example.com", "alice", "Abc1!x")
	require.NoError(t, err)

	_, errUnknown := f.svc.Login(ctx, "nobody", "Abc1!x")
	_, errWrong := f.svc.Login(ctx, "alice", "Wrong1!")
	_, errEmpty := f.svc.Login(ctx, "", "")

	for _, err := range []error{errUnknown, errWrong, errEmpty} {
		require.ErrorIs(t, err, apperr.ErrUnauthorized)
		assert.Equal(t, errUnknown.Error(), err.Error())
	}
}

func TestValidateCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "alice@example.com", "alice", "Abc1!x")
	require.NoError(t, err)

	v, err := f.svc.ValidateCredentials(ctx, "alice", "Abc1!x")
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Username)

	v, err = f.svc.ValidateCredentials(ctx, "alice", "nope")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = f.svc.ValidateCredentials(ctx, "ghost", "Abc1!x")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestValidateCredentials_UnknownIdentifierStillCompares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "alice@example.com", "alice", "Abc1!x")
	require.NoError(t, err)

	before := f.hasher.verifies.Load()
	v, err := f.svc.ValidateCredentials(ctx, "ghost", "Abc1!x")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, before+1, f.hasher.verifies.Load())

	v, err = f.svc.ValidateCredentials(ctx, "alice", "Wrong1!")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, before+2, f.hasher.verifies.Load())
}
