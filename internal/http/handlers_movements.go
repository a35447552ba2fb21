package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"suma/internal/core"
	"suma/internal/ledger"
)

func movementFilter(r *http.Request) ledger.MovementFilter {
	q := r.URL.Query()
	f := ledger.MovementFilter{
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Offset = n
		}
	}
	return f
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request, owner core.User) {
	movements, err := s.movements.List(r.Context(), owner.ID, movementFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request, owner core.User) {
	var draft core.MovementDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	movement, err := s.movements.Create(r.Context(), owner.ID, draft)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movement)
}

func (s *Server) handleUpdateMovement(w http.ResponseWriter, r *http.Request, owner core.User) {
	var patch core.MovementPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	movement, err := s.movements.Update(r.Context(), owner.ID, r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movement)
}

func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request, owner core.User) {
	if err := s.movements.Delete(r.Context(), owner.ID, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleKPISummary(w http.ResponseWriter, r *http.Request, owner core.User) {
	period := core.Period(r.URL.Query().Get("period"))
	summary, err := s.movements.Summary(r.Context(), owner.ID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
