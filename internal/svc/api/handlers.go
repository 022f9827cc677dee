// If you are AI: This file implements the JSON stats API.
// All handlers are fast, allocation-light, and never block media paths.

package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
)

// Service provides read-only introspection endpoints.
type Service struct {
	router  *bus.Router
	meter   *meter.Meter
	started time.Time
}

// NewService creates the API service.
func NewService(router *bus.Router, m *meter.Meter) *Service {
	return &Service{
		router:  router,
		meter:   m,
		started: time.Now(),
	}
}

// RegisterRoutes adds the API routes to the given router.
func (s *Service) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc(http.MethodGet, "/api/channels", s.handleChannels)
	mux.HandlerFunc(http.MethodGet, "/api/stats", s.handleStats)
}

// ChannelsResponse represents the /api/channels response.
// Channels are keyed by interned id; names are not recoverable from hashes.
type ChannelsResponse struct {
	Channels []bus.ChannelStats `json:"channels"`
}

// StatsResponse represents the /api/stats response.
type StatsResponse struct {
	UptimeSeconds int64          `json:"uptime_seconds"`
	GoVersion     string         `json:"go_version"`
	Counters      meter.Snapshot `json:"counters"`
}

// handleChannels lists the live channel entries.
func (s *Service) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ChannelsResponse{Channels: s.router.Stats()})
}

// handleStats reports process stats and running frame counters.
func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatsResponse{
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		GoVersion:     runtime.Version(),
		Counters:      s.meter.Totals(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing sensible left to do.
		return
	}
}
