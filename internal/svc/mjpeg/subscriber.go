// If you are AI: This file implements the MJPEG subscriber that drains a
// sink into an HTTP response body.

package mjpeg

import (
	"context"
	"io"
	"net/http"

	"github.com/sgasse/infercam/internal/core/bus"
)

// Subscriber writes wrapped frame parts from a sink to an HTTP response.
type Subscriber struct {
	w     io.Writer
	flush http.Flusher
	sink  *bus.Sink
}

// NewSubscriber creates a subscriber over a response writer and a sink.
// The flusher may be nil; frames are then delivered on the transport's own
// buffering schedule.
func NewSubscriber(w io.Writer, flush http.Flusher, sink *bus.Sink) *Subscriber {
	return &Subscriber{w: w, flush: flush, sink: sink}
}

// Stream copies frames until the context is cancelled, the sink is torn
// down, or a write fails. Each sink item is written verbatim as one chunk.
func (s *Subscriber) Stream(ctx context.Context) error {
	for {
		part, ok := s.sink.Recv(ctx)
		if !ok {
			return ctx.Err()
		}
		if _, err := s.w.Write(part); err != nil {
			return err
		}
		if s.flush != nil {
			// Flush per frame to detect disconnects early.
			s.flush.Flush()
		}
	}
}
