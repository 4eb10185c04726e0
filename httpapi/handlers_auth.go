package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required,max=1024"`
}

type verifyMFARequest struct {
	Challenge string `json:"challenge" validate:"required,max=64"`
	Code      string `json:"code" validate:"required,max=10"`
}

type verifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type sessionResponse struct {
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	AccountID      string    `json:"account_id"`
	Username       string    `json:"username"`
	Role           string    `json:"role"`
}

type challengeResponse struct {
	MFARequired bool   `json:"mfa_required"`
	Challenge   string `json:"challenge"`
}

type claimsResponse struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return s.validate.Struct(dst)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
		return
	}

	result, err := s.engine.SubmitCredentials(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	if result.MFARequired {
		writeJSON(w, http.StatusOK, challengeResponse{
			MFARequired: true,
			Challenge:   result.Challenge,
		})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:          result.Token,
		TokenExpiresAt: result.TokenExpiresAt,
		AccountID:      result.AccountID,
		Username:       result.Username,
		Role:           result.Role,
	})
}

func (s *Server) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req verifyMFARequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
		return
	}

	result, err := s.engine.SubmitMFA(r.Context(), req.Challenge, req.Code)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:          result.Token,
		TokenExpiresAt: result.TokenExpiresAt,
		AccountID:      result.AccountID,
		Username:       result.Username,
		Role:           result.Role,
	})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
		return
	}

	claims, err := s.engine.VerifyToken(r.Context(), req.Token)
	if err != nil {
		writeTokenError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claimsResponse{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	})
}
