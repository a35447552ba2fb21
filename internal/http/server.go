// Package http wires the resource API: routing, auth middleware, and the JSON
// handlers over the services layer.
package http

import (
	"net/http"

	"suma/internal/auth"
	applog "suma/internal/log"
	"suma/internal/services"
)

// Server bundles the router with its dependencies. It embeds http.Server so
// the caller keeps the usual ListenAndServe/Shutdown lifecycle.
type Server struct {
	http.Server

	verifier  auth.Verifier
	users     *services.UserService
	movements *services.MovementService
	refs      *services.ReferenceService

	appName        string
	appVersion     string
	authConfigured bool
}

// Config carries what the server needs beyond its collaborators.
type Config struct {
	Addr           string
	CORSOrigins    []string
	AppName        string
	AppVersion     string
	AuthConfigured bool
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(cfg Config, verifier auth.Verifier, users *services.UserService, movements *services.MovementService, refs *services.ReferenceService, logger *applog.Logger) *Server {
	s := &Server{
		verifier:       verifier,
		users:          users,
		movements:      movements,
		refs:           refs,
		appName:        cfg.AppName,
		appVersion:     cfg.AppVersion,
		authConfigured: cfg.AuthConfigured,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/seed", s.handleSeed)

	mux.HandleFunc("POST /api/v1/auth/register", s.withAuth(s.handleRegister))
	mux.HandleFunc("GET /api/v1/auth/me", s.withAuth(s.handleMe))

	mux.HandleFunc("GET /api/v1/movements", s.withOwner(s.handleListMovements))
	mux.HandleFunc("POST /api/v1/movements", s.withOwner(s.handleCreateMovement))
	mux.HandleFunc("PATCH /api/v1/movements/{id}", s.withOwner(s.handleUpdateMovement))
	mux.HandleFunc("DELETE /api/v1/movements/{id}", s.withOwner(s.handleDeleteMovement))

	mux.HandleFunc("GET /api/v1/business-units", s.handleListBusinessUnits)
	mux.HandleFunc("POST /api/v1/business-units", s.handleCreateBusinessUnit)
	mux.HandleFunc("GET /api/v1/tags", s.handleListTags)
	mux.HandleFunc("POST /api/v1/tags", s.handleCreateTag)

	mux.HandleFunc("GET /api/v1/kpis/summary", s.withOwner(s.handleKPISummary))

	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}
	return s
}
