package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/auth"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-youapp/internal/user/repo"
)

func seeded(t *testing.T) *userrepo.MemoryRepo {
	t.Helper()
	r := userrepo.NewMemoryRepo()
	require.NoError(t, r.Create(context.Background(), &entity.User{ID: "1", Email: "a@x.io", Username: "alice", PasswordHash: "secret-hash"}))
	return r
}

func TestMe(t *testing.T) {
	svc := NewUserService(seeded(t), nil)

	v, err := svc.Me(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, &entity.View{ID: "1", Email: "a@x.io", Username: "alice"}, v)

	_, err = svc.Me(context.Background(), "2")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestHandlerMe(t *testing.T) {
	h := NewHandler(NewUserService(seeded(t), nil), zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "1", Username: "alice"}))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string]any{"id": "1", "email": "a@x.io", "username": "alice"}, body)
}

func TestHandlerMeVanishedUser(t *testing.T) {
	h := NewHandler(NewUserService(seeded(t), nil), zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "gone"}))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerMeWithoutIdentity(t *testing.T) {
	h := NewHandler(NewUserService(seeded(t), nil), zap.NewNop().Sugar())
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
