package httpapi

import (
	"encoding/json"
	"net/http"
)

const maxBrandingKeys = 64

type brandingResponse struct {
	Branding map[string]string `json:"branding"`
}

func (s *Server) handleGetBranding(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
		return
	}

	branding, err := s.store.Branding(r.Context())
	if err != nil {
		s.logger.Warn("branding read failed", "error", err)
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, brandingResponse{Branding: branding})
}

func (s *Server) handlePutBranding(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
		return
	}

	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
		return
	}
	if len(values) == 0 || len(values) > maxBrandingKeys {
		writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
		return
	}
	for key := range values {
		if key == "" {
			writeErrorKind(w, http.StatusBadRequest, kindBadRequest)
			return
		}
	}

	if err := s.store.SetBranding(r.Context(), values); err != nil {
		s.logger.Warn("branding update failed", "error", err)
		writeErrorKind(w, http.StatusServiceUnavailable, kindServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
