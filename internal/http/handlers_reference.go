package http

import (
	"encoding/json"
	"net/http"

	applog "suma/internal/log"
	"suma/internal/services"
)

func (s *Server) handleListBusinessUnits(w http.ResponseWriter, r *http.Request) {
	units, err := s.refs.BusinessUnits(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (s *Server) handleCreateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	var draft services.BusinessUnitDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	unit, err := s.refs.CreateBusinessUnit(r.Context(), draft)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if claims, ok := s.optionalClaims(r); ok {
		applog.FromContext(r.Context()).Info("business unit created",
			applog.FieldUserID, claims.UID,
			"unit_id", unit.ID)
	}
	writeJSON(w, http.StatusOK, unit)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.refs.Tags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var draft services.TagDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	tag, err := s.refs.CreateTag(r.Context(), draft)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if claims, ok := s.optionalClaims(r); ok {
		applog.FromContext(r.Context()).Info("tag created",
			applog.FieldUserID, claims.UID,
			"tag_id", tag.ID)
	}
	writeJSON(w, http.StatusOK, tag)
}
