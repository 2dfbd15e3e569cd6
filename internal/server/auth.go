// auth.go - Static shared-secret check for protected routes.
package server

import (
	"errors"
	"net/http"
)

// HeaderAPIKey carries the shared secret.
const HeaderAPIKey = "X-API-Key"

// ErrUnauthorized is returned when the API key is missing or wrong.
var ErrUnauthorized = errors.New("invalid or missing API key")

const unauthorizedDetail = "Invalid or missing API key"

// checkAPIKey is a no-op when no key is configured. The comparison is plain
// equality, not constant time.
func (s *Server) checkAPIKey(provided string) error {
	if s.cfg.APIKey != "" && provided != s.cfg.APIKey {
		return ErrUnauthorized
	}
	return nil
}

// requireAPIKey rejects the request with 401 before next runs, so no
// protected handler touches storage without a valid key.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.checkAPIKey(r.Header.Get(HeaderAPIKey)); err != nil {
			s.metrics.recordAuthFailure()
			s.log.Warn("unauthorized", map[string]any{
				"rid":  RequestIDFromContext(r.Context()),
				"path": r.URL.Path,
				"ip":   clientIP(r),
			})
			writeError(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}
		next.ServeHTTP(w, r)
	})
}
