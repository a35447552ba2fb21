package http

import (
	"net/http"
	"strings"

	"suma/internal/auth"
	"suma/internal/core"
)

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// withAuth verifies the bearer credential before dispatching. A missing
// header never reaches the verifier.
func (s *Server) withAuth(next func(http.ResponseWriter, *http.Request, auth.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			respondError(w, r, err)
			return
		}
		next(w, r, claims)
	}
}

// withOwner additionally resolves the internal user that scopes every
// movement and KPI operation. Valid identity without a user record fails
// closed as not registered.
func (s *Server) withOwner(next func(http.ResponseWriter, *http.Request, core.User)) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
		owner, err := s.users.ResolveOwner(r.Context(), claims)
		if err != nil {
			respondError(w, r, err)
			return
		}
		next(w, r, owner)
	})
}

// optionalClaims verifies a credential when one is present and degrades to
// anonymous claims otherwise. Endpoints that require auth never use this.
func (s *Server) optionalClaims(r *http.Request) (auth.Claims, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return auth.Claims{}, false
	}
	claims, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

// corsMiddleware mirrors the original deployment's permissive CORS setup,
// with origins taken from configuration.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
