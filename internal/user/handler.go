package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/auth"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/httpx"
)

// Handler exposes HTTP endpoints for user operations.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Me must be mounted behind auth.Guard.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "Missing bearer token")
		return
	}
	v, err := h.svc.Me(r.Context(), id.UserID)
	if err != nil {
		httpx.Fail(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}
