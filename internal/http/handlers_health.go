package http

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	firebase := "not_configured"
	if s.authConfigured {
		firebase = "configured"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"app":      s.appName,
		"version":  s.appVersion,
		"firebase": firebase,
	})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	result, err := s.movements.SeedDemo(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if result.AlreadySeeded {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "Data already seeded",
			"movement_count": result.MovementCount,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Seed complete",
		"movements": result.MovementCount,
		"units":     result.Units,
		"tags":      result.Tags,
	})
}
