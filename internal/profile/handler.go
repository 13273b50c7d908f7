package profile

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/auth"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/validation"
)

// Handler serves the authenticated user's own profile.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "Missing bearer token")
		return "", false
	}
	return id.UserID, true
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.logger.Debugw("invalid profile payload", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := validation.Struct(in); err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	p, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var patch Patch
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		h.logger.Debugw("invalid profile payload", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := validation.Struct(patch); err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	p, err := h.svc.Update(r.Context(), uid, patch)
	if err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
