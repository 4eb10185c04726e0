package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prismacost/adminauth"
)

// Stable machine-readable error kinds. Clients branch on these, never on
// message text.
const (
	kindInvalidCredentials = "invalid_credentials"
	kindInvalidCode        = "invalid_code"
	kindChallengeExpired   = "challenge_expired"
	kindTooManyAttempts    = "too_many_attempts"
	kindTokenExpired       = "token_expired"
	kindTokenMalformed     = "token_malformed"
	kindBadRequest         = "bad_request"
	kindServiceUnavailable = "service_unavailable"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorKind(w http.ResponseWriter, status int, kind string) {
	writeJSON(w, status, errorResponse{Error: kind})
}

// writeLoginError maps engine sentinels onto the HTTP error surface. Every
// credential rejection produces the identical invalid_credentials payload.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminauth.ErrInvalidCredentials),
		errors.Is(err, adminauth.ErrAccountNotFound):
		writeErrorKind(w, http.StatusUnauthorized, kindInvalidCredentials)
	case errors.Is(err, adminauth.ErrInvalidMFACode),
		errors.Is(err, adminauth.ErrMFAChallengeInvalid):
		writeErrorKind(w, http.StatusUnauthorized, kindInvalidCode)
	case errors.Is(err, adminauth.ErrMFAChallengeExpired):
		writeErrorKind(w, http.StatusUnauthorized, kindChallengeExpired)
	case errors.Is(err, adminauth.ErrMFAAttemptsExceeded),
		errors.Is(err, adminauth.ErrLoginRateLimited):
		writeErrorKind(w, http.StatusTooManyRequests, kindTooManyAttempts)
	default:
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
	}
}

func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminauth.ErrTokenExpired):
		writeErrorKind(w, http.StatusUnauthorized, kindTokenExpired)
	case errors.Is(err, adminauth.ErrTokenMalformed):
		writeErrorKind(w, http.StatusUnauthorized, kindTokenMalformed)
	default:
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
	}
}
