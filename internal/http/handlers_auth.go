package http

import (
	"encoding/json"
	"net/http"

	"suma/internal/auth"
	"suma/internal/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var hints services.ProfileHints
	if r.Body != nil {
		// An empty or absent body is fine; hints are optional.
		_ = json.NewDecoder(r.Body).Decode(&hints)
	}

	user, err := s.users.RegisterOrFetch(r.Context(), claims, hints)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	user, err := s.users.ResolveOwner(r.Context(), claims)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
