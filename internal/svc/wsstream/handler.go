// If you are AI: This file implements the WebSocket stream endpoint.
// Upgrades the connection and streams JPEG frames as binary messages.

package wsstream

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
)

// Service serves MJPEG frames over WebSocket.
type Service struct {
	router   *bus.Router
	upgrader websocket.Upgrader
}

// NewService creates the WebSocket stream service.
func NewService(router *bus.Router) *Service {
	return &Service{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// RegisterRoutes adds the service's routes to the given router.
func (s *Service) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc(http.MethodGet, "/ws_stream", s.handleStream)
}

// handleStream upgrades to WebSocket and streams the requested channel.
// Query parameters: name (channel, default "unknown"), annotated
// ("true" selects the annotated stream).
func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "unknown"
	}

	var sink *bus.Sink
	if r.URL.Query().Get("annotated") == "true" {
		sink = s.router.SubscribeAnnotated(name)
	} else {
		sink = s.router.SubscribeRaw(name)
	}
	defer sink.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := NewSubscriber(conn, sink)
	if err := sub.Stream(r.Context()); err != nil {
		log.Debugf("WebSocket viewer gone: %v", err)
	}
}
