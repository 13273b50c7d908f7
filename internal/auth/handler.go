package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/validation"
)

// Handler exposes register, login and the public key set.
type Handler struct {
	svc     *Service
	issuer  *Issuer
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
}

func NewHandler(svc *Service, issuer *Issuer, m *metrics.Metrics, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, issuer: issuer, metrics: m, logger: logger}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20,excludes=@"`
	Password string `json:"password" validate:"required,min=6,max=9,password_policy"`
}

// LoginRequest accepts emailOrUsername; email and username are older aliases.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

func (r LoginRequest) identifier() string {
	for _, s := range []string{r.EmailOrUsername, r.Email, r.Username} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *entity.View `json:"user"`
}

func newSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		Message:     s.Message,
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt,
		User:        s.User,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		h.metrics.AuthAttempt("register", metrics.ResultInvalid)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		h.metrics.AuthAttempt("register", metrics.ResultInvalid)
		httpx.Fail(w, h.logger, err)
		return
	}
	s, err := h.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.metrics.AuthAttempt("register", outcome(err))
		httpx.Fail(w, h.logger, err)
		return
	}
	h.metrics.AuthAttempt("register", metrics.ResultSuccess)
	httpx.WriteJSON(w, http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.metrics.AuthAttempt("login", metrics.ResultInvalid)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	ident := req.identifier()
	fields := map[string]string{}
	if ident == "" {
		fields["emailOrUsername"] = "is required"
	}
	if req.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		h.metrics.AuthAttempt("login", metrics.ResultInvalid)
		httpx.Fail(w, h.logger, apperr.Validation("invalid_input", "Validation failed", fields))
		return
	}
	s, err := h.svc.Login(r.Context(), ident, req.Password)
	if err != nil {
		h.metrics.AuthAttempt("login", outcome(err))
		httpx.Fail(w, h.logger, err)
		return
	}
	h.metrics.AuthAttempt("login", metrics.ResultSuccess)
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(s))
}

// JWKS serves the RS256 public key; symmetric setups have nothing to publish.
func (h *Handler) JWKS(w http.ResponseWriter, r *http.Request) {
	set, ok := h.issuer.JWKS()
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "No public keys published")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.WriteJSON(w, http.StatusOK, set)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrConflict):
		return metrics.ResultConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		return metrics.ResultDenied
	case errors.Is(err, apperr.ErrValidation):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
