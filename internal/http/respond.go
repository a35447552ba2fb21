package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"suma/internal/auth"
	"suma/internal/core"
	"suma/internal/ledger"
	applog "suma/internal/log"
)

// detail is the error payload shape the API has always used.
type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, detail{Detail: message})
}

// respondError maps the error taxonomy onto HTTP statuses. NotFound keeps one
// message for "absent" and "not yours" so ownership cannot be probed.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeDetail(w, http.StatusUnprocessableEntity, vErr.Error())
	case errors.Is(err, auth.ErrNotConfigured):
		writeDetail(w, http.StatusServiceUnavailable, "Authentication service not configured")
	case errors.Is(err, auth.ErrTokenExpired):
		writeDetail(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		writeDetail(w, http.StatusUnauthorized, "Token revoked")
	case errors.Is(err, auth.ErrTokenMalformed):
		writeDetail(w, http.StatusUnauthorized, "Invalid token: malformed")
	case errors.Is(err, auth.ErrTokenInvalid):
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, ledger.ErrNotRegistered):
		writeDetail(w, http.StatusNotFound, "User not registered")
	case errors.Is(err, ledger.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Movement not found")
	default:
		applog.FromContext(r.Context()).Error("request failed",
			applog.FieldError, err.Error(),
			"method", r.Method,
			"path", r.URL.Path)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
