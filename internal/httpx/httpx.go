// Package httpx has the JSON request/response helpers shared by the handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
)

const maxBodyBytes = 1 << 20

// ErrTrailingData is returned when a body holds more than one JSON value.
var ErrTrailingData = errors.New("request body must contain a single JSON object")

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, ErrorBody{Error: code, Message: msg})
}

// DecodeJSON reads a single JSON object and rejects unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err to w. Domain errors keep their code and message; anything
// else is logged and answered with a generic 500.
func Fail(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := StatusFor(err)
	ae, ok := apperr.As(err)
	if !ok || status == http.StatusInternalServerError {
		log.Errorw("request failed", "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	if status == http.StatusConflict || status == http.StatusUnauthorized {
		log.Debugw("request rejected", "code", ae.Code, "err", err)
	}
	WriteJSON(w, status, ErrorBody{Error: ae.Code, Message: ae.Message, Fields: ae.Fields})
}
