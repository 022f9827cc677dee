// If you are AI: This file implements the HTTP handlers of the MJPEG service:
// raw and annotated viewer streams plus the multipart publish endpoint.

package mjpeg

import (
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
	mjpegproto "github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// defaultChannel is used when a request carries no name parameter.
const defaultChannel = "unknown"

// Service serves MJPEG viewer streams and the HTTP publish endpoint.
type Service struct {
	router *bus.Router
}

// NewService creates the MJPEG service.
func NewService(router *bus.Router) *Service {
	return &Service{router: router}
}

// RegisterRoutes adds the service's routes to the given router.
func (s *Service) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc(http.MethodGet, "/stream", s.handleStream)
	mux.HandlerFunc(http.MethodGet, "/face_stream", s.handleFaceStream)
	mux.HandlerFunc(http.MethodPost, "/publish", s.handlePublish)
}

// channelName extracts the channel name from the query.
func channelName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return defaultChannel
}

// handleStream serves the raw stream of a channel.
func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	name := channelName(r)
	log.Debugf("Raw stream for %q requested", name)
	s.serve(w, r, s.router.SubscribeRaw(name))
}

// handleFaceStream serves the annotated stream of a channel.
// The response is always 200; the body produces no bytes until annotated
// frames exist.
func (s *Service) handleFaceStream(w http.ResponseWriter, r *http.Request) {
	name := channelName(r)
	log.Debugf("Annotated stream for %q requested", name)
	s.serve(w, r, s.router.SubscribeAnnotated(name))
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request, sink *bus.Sink) {
	// Dropping the request context closes the sink so the next publish
	// evicts this subscriber.
	defer sink.Close()

	w.Header().Set("Content-Type", mjpegproto.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	sub := NewSubscriber(w, flusher, sink)
	if err := sub.Stream(r.Context()); err != nil {
		log.Debugf("Viewer gone: %v", err)
	}
}

// handlePublish ingests a multipart JPEG stream as the channel's publisher.
// It follows the same conflict discipline as the TCP ingest path.
func (s *Service) handlePublish(w http.ResponseWriter, r *http.Request) {
	name := channelName(r)

	guard, err := s.router.RegisterPublisher(name)
	if err != nil {
		if errors.Is(err, bus.ErrPublisherConflict) {
			http.Error(w, "publisher already registered", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer guard.Release()

	log.Infof("Receiving multipart stream for channel %q", name)

	parts := mjpegproto.NewStreamReader(r.Body)
	for {
		frame, err := parts.ReadPart()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debugf("Multipart publisher for %q ended: %v", name, err)
			}
			return
		}
		s.router.Publish(name, frame)
	}
}
