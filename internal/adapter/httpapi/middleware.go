package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

type ownerKey struct{}

// authMiddleware guards all routes with a static bearer token. An empty
// configured token disables the check (local development).
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token != s.apiToken {
				s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or missing token"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ownerMiddleware resolves the acting owner from the X-Owner-ID header,
// falling back to the configured default owner.
func (s *Server) ownerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := s.defaultOwner
		if header := r.Header.Get("X-Owner-ID"); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				s.writeError(w, domain.Validationf("invalid X-Owner-ID header"))
				return
			}
			owner = id
		}
		if owner == uuid.Nil {
			s.writeError(w, domain.Validationf("owner id is required"))
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey{}, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFrom(r *http.Request) uuid.UUID {
	owner, _ := r.Context().Value(ownerKey{}).(uuid.UUID)
	return owner
}

// pathID parses the {id} route parameter
func pathID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(routeParam(r, param))
	if err != nil {
		return uuid.Nil, domain.Validationf("invalid %s", param)
	}
	return id, nil
}

// loggingMiddleware logs each request at debug level
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
