// If you are AI: This file implements the health check endpoint for monitoring and integration tests.

package health

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Service provides health check functionality.
type Service struct{}

// New creates a new health service instance.
func New() *Service {
	return &Service{}
}

// RegisterRoutes adds health check routes to the provided router.
func (s *Service) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc(http.MethodGet, "/healthcheck", s.handleHealth)
}

// handleHealth responds to health check requests.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("healthy"))
}
